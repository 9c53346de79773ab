package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/twiced-technology-gmbh/taskboard/internal/auth"
	"github.com/twiced-technology-gmbh/taskboard/internal/clierr"
	"github.com/twiced-technology-gmbh/taskboard/internal/output"
	"github.com/twiced-technology-gmbh/taskboard/internal/session"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the account service",
	Long: `Signs in with email and password and stores the returned token with the
board. The password is prompted for when --password is not given.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:     "signup",
	Aliases: []string{"register"},
	Short:   "Create an account and sign in",
	Args:    cobra.NoArgs,
	RunE:    runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token and user",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{loginCmd, signupCmd} {
		c.Flags().String("email", "", "account email")
		c.Flags().String("password", "", "account password (prompted when omitted)")
		c.Flags().String("role", auth.RoleUser, "account role (user, admin)")
	}
	signupCmd.Flags().String("name", "", "full name")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(signupCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	creds, err := readCredentials(cmd)
	if err != nil {
		return err
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	u, err := sess.Login(cmd.Context(), creds)
	if err != nil {
		return authError(err)
	}
	return outputUser(u, "Signed in as")
}

func runSignup(cmd *cobra.Command, _ []string) error {
	creds, err := readCredentials(cmd)
	if err != nil {
		return err
	}
	name, _ := cmd.Flags().GetString("name")
	if strings.TrimSpace(name) == "" {
		if name, err = prompt("Full name: "); err != nil {
			return err
		}
	}

	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	u, err := sess.Register(cmd.Context(), auth.Registration{
		FullName: strings.TrimSpace(name),
		Email:    creds.Email,
		Password: creds.Password,
		Role:     creds.Role,
	})
	if err != nil {
		return authError(err)
	}
	return outputUser(u, "Created account")
}

func runLogout(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	u, signedIn := sess.User()
	if err := sess.Logout(cmd.Context()); err != nil {
		return clierr.Wrap(clierr.PersistenceWriteFailure, err)
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"status": "logged_out", "email": u.Email})
	}
	if !signedIn {
		output.Messagef(os.Stdout, "Not signed in")
		return nil
	}
	output.Messagef(os.Stdout, "Signed out %s", u.Email)
	return nil
}

// whoamiResult is the JSON shape of whoami.
type whoamiResult struct {
	Email   string       `json:"email"`
	Role    string       `json:"role,omitempty"`
	Claims  *auth.Claims `json:"claims,omitempty"`
	Expired bool         `json:"expired"`
}

func runWhoami(cmd *cobra.Command, _ []string) error {
	sess, err := openSession(cmd.Context())
	if err != nil {
		return err
	}
	defer sess.Close()

	u, ok := sess.User()
	if !ok {
		return clierr.New(clierr.NotLoggedIn, "not signed in (run 'taskboard login')")
	}
	res := whoamiResult{Email: u.Email, Role: u.Role}
	if token, err := sess.Token(cmd.Context()); err == nil {
		if claims, err := auth.ParseClaims(token); err == nil {
			res.Claims = &claims
			res.Expired = claims.Expired(time.Now())
		} else {
			sess.Log.WithError(err).Debug("stored token has no readable claims")
		}
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, res)
	}
	fmt.Fprintf(os.Stdout, "%s", res.Email)
	if res.Role != "" {
		fmt.Fprintf(os.Stdout, " (%s)", res.Role)
	}
	fmt.Fprintln(os.Stdout)
	if res.Claims != nil && res.Claims.ExpiresAt != nil {
		state := "expires"
		if res.Expired {
			state = "expired"
		}
		fmt.Fprintf(os.Stdout, "token %s %s\n", state, res.Claims.ExpiresAt.Local().Format(time.RFC1123))
	}
	return nil
}

func readCredentials(cmd *cobra.Command) (auth.Credentials, error) {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	role, _ := cmd.Flags().GetString("role")

	role = strings.ToLower(strings.TrimSpace(role))
	if role != auth.RoleUser && role != auth.RoleAdmin {
		return auth.Credentials{}, clierr.Newf(clierr.InvalidInput, "invalid role %q", role).
			WithDetails(map[string]any{"allowed": []string{auth.RoleUser, auth.RoleAdmin}})
	}

	var err error
	if strings.TrimSpace(email) == "" {
		if email, err = prompt("Email: "); err != nil {
			return auth.Credentials{}, err
		}
	}
	if password == "" {
		if password, err = promptPassword("Password: "); err != nil {
			return auth.Credentials{}, err
		}
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return auth.Credentials{}, clierr.New(clierr.InvalidInput, "email and password are required")
	}
	return auth.Credentials{Email: email, Password: password, Role: role}, nil
}

var stdinReader = bufio.NewReader(os.Stdin)

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := stdinReader.ReadString('\n')
	if err != nil && line == "" {
		return "", clierr.Newf(clierr.InvalidInput, "reading %s: %v", strings.TrimSuffix(label, ": "), err)
	}
	return strings.TrimSpace(line), nil
}

func promptPassword(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// authError maps account service failures to coded CLI errors.
func authError(err error) error {
	switch {
	case errors.Is(err, auth.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return clierr.Wrap(clierr.AuthTimeout, err)
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrServer),
		errors.Is(err, auth.ErrNoToken):
		return clierr.Wrap(clierr.AuthFailed, err)
	}
	return err
}

func outputUser(u session.User, verb string) error {
	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, u)
	}
	if u.Role != "" {
		output.Messagef(os.Stdout, "%s %s (%s)", verb, u.Email, u.Role)
		return nil
	}
	output.Messagef(os.Stdout, "%s %s", verb, u.Email)
	return nil
}
