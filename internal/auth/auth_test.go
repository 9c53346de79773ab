package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return tok
}

func fakeService(t *testing.T, token string) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.POST(loginPath, func(c echo.Context) error {
		var creds Credentials
		if err := c.Bind(&creds); err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "bad request"})
		}
		switch creds.Email {
		case "slow@example.com":
			select {
			case <-c.Request().Context().Done():
			case <-time.After(2 * time.Second):
			}
			return c.NoContent(http.StatusGatewayTimeout)
		case "crash@example.com":
			return c.String(http.StatusInternalServerError, "<html>oops</html>")
		case "quiet@example.com":
			return c.JSON(http.StatusUnauthorized, map[string]string{})
		}
		if creds.Password != "hunter2" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Wrong password"})
		}
		return c.JSON(http.StatusOK, Response{Token: token, Role: creds.Role})
	})
	e.POST(registerPath, func(c echo.Context) error {
		var reg Registration
		if err := c.Bind(&reg); err != nil {
			return err
		}
		if reg.Email == "taken@example.com" {
			return c.JSON(http.StatusConflict, map[string]string{"message": "Email already registered"})
		}
		if reg.Email == "notoken@example.com" {
			return c.JSON(http.StatusCreated, map[string]string{})
		}
		return c.JSON(http.StatusCreated, Response{Token: token})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestLogin(t *testing.T) {
	t.Parallel()
	token := signedToken(t, jwt.MapClaims{"sub": "u1", "email": "ada@example.com", "role": RoleAdmin})
	srv := fakeService(t, token)
	c := NewClient(srv.URL, 200*time.Millisecond, srv.Client(), nil)

	resp, err := c.Login(context.Background(), Credentials{Email: "ada@example.com", Password: "hunter2", Role: RoleAdmin})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != token || resp.Role != RoleAdmin {
		t.Errorf("Login = %+v", resp)
	}
}

func TestLoginFailures(t *testing.T) {
	t.Parallel()
	srv := fakeService(t, "unused")
	c := NewClient(srv.URL, 200*time.Millisecond, srv.Client(), nil)

	tests := []struct {
		name    string
		email   string
		want    error
		message string
	}{
		{"wrong password", "ada@example.com", ErrInvalidCredentials, "Wrong password"},
		{"no message", "quiet@example.com", ErrInvalidCredentials, "invalid credentials"},
		{"timeout", "slow@example.com", ErrTimeout, ""},
		{"server error", "crash@example.com", ErrServer, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Login(context.Background(), Credentials{Email: tt.email, Password: "nope"})
			if !errors.Is(err, tt.want) {
				t.Fatalf("Login = %v, want %v", err, tt.want)
			}
			for _, other := range []error{ErrTimeout, ErrServer, ErrInvalidCredentials} {
				if other != tt.want && errors.Is(err, other) {
					t.Errorf("error %v also matches %v", err, other)
				}
			}
			if tt.message != "" && !strings.Contains(err.Error(), tt.message) {
				t.Errorf("error %q lacks %q", err, tt.message)
			}
		})
	}
}

func TestLoginUnreachable(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second, nil, nil).Login(context.Background(), Credentials{Email: "a@b.c"})
	if !errors.Is(err, ErrServer) {
		t.Fatalf("Login = %v, want ErrServer", err)
	}
}

func TestRegister(t *testing.T) {
	t.Parallel()
	srv := fakeService(t, "tok")
	c := NewClient(srv.URL, time.Second, srv.Client(), nil)
	ctx := context.Background()

	resp, err := c.Register(ctx, Registration{FullName: "Ada", Email: "ada@example.com", Password: "pw"})
	if err != nil || resp.Token != "tok" || resp.Role != RoleUser {
		t.Fatalf("Register = %+v, %v", resp, err)
	}
	if _, err := c.Register(ctx, Registration{Email: "taken@example.com"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("Register taken = %v", err)
	}
	if _, err := c.Register(ctx, Registration{Email: "notoken@example.com"}); !errors.Is(err, ErrNoToken) {
		t.Errorf("Register without token = %v", err)
	}
}

func TestParseClaims(t *testing.T) {
	t.Parallel()
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	tok := signedToken(t, jwt.MapClaims{"sub": "u1", "email": "ada@example.com", "role": RoleUser, "exp": exp.Unix()})

	c, err := ParseClaims("Bearer " + tok)
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if c.Subject != "u1" || c.Email != "ada@example.com" || c.Role != RoleUser {
		t.Errorf("claims = %+v", c)
	}
	if c.ExpiresAt == nil || !c.ExpiresAt.Equal(exp) || !c.Expired(time.Now()) {
		t.Errorf("expiry = %v", c.ExpiresAt)
	}

	if _, err := ParseClaims("not-a-jwt"); err == nil {
		t.Error("ParseClaims accepted garbage")
	}
	if _, err := ParseClaims(""); err == nil {
		t.Error("ParseClaims accepted an empty token")
	}
}
