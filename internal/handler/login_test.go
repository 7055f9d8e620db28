package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appErr "github.com/samims/stillup/internal/errors"
	"github.com/samims/stillup/internal/gate"
	"github.com/samims/stillup/internal/identity"
	"github.com/samims/stillup/internal/model"
)

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestLoginShow(t *testing.T) {
	h := NewLoginHandler(identity.NewMockService(t), false, testLogger)
	rec := httptest.NewRecorder()
	h.Show(rec, httptest.NewRequest(http.MethodGet, "http://localhost:3000/login", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Login to StillUp?")
	assert.Contains(t, body, `value="signin"`)
	assert.Contains(t, body, `value="signup"`)
	assert.NotContains(t, body, "alert(")
}

func TestLoginSubmit(t *testing.T) {
	sess := &model.Session{AccessToken: "jwt", TokenType: "bearer", ExpiresIn: 3600, User: model.SessionUser{ID: "user-1"}}

	tests := []struct {
		name         string
		action       string
		setup        func(m *identity.MockService)
		wantStatus   int
		wantLocation string
		wantCookie   bool
		wantBody     string
	}{
		{
			name:   "sign in success mirrors session",
			action: "signin",
			setup: func(m *identity.MockService) {
				m.On("SignIn", mock.Anything, "a@example.com", "pw").Return(sess, nil)
			},
			wantStatus:   http.StatusSeeOther,
			wantLocation: "/dashboard",
			wantCookie:   true,
		},
		{
			name:   "sign in failure alerts raw message",
			action: "signin",
			setup: func(m *identity.MockService) {
				m.On("SignIn", mock.Anything, "a@example.com", "pw").
					Return(nil, appErr.NewUnauthorized("Invalid login credentials"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "Invalid login credentials",
		},
		{
			name:   "sign up success",
			action: "signup",
			setup: func(m *identity.MockService) {
				m.On("SignUp", mock.Anything, "a@example.com", "pw").Return(&model.User{ID: "user-1"}, nil)
			},
			wantStatus: http.StatusOK,
			wantBody:   "Check your email for the confirmation link!",
		},
		{
			name:   "sign up failure",
			action: "signup",
			setup: func(m *identity.MockService) {
				m.On("SignUp", mock.Anything, "a@example.com", "pw").
					Return(nil, appErr.NewConflict("User already registered"))
			},
			wantStatus: http.StatusOK,
			wantBody:   "User already registered",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := identity.NewMockService(t)
			tt.setup(auth)
			h := NewLoginHandler(auth, false, testLogger)

			rec := httptest.NewRecorder()
			h.Submit(rec, postForm("http://localhost:3000/login", url.Values{
				"email":    {"a@example.com"},
				"password": {"pw"},
				"action":   {tt.action},
			}))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
			}

			c := findCookie(rec.Result().Cookies(), "sb-localhost-auth-token")
			if !tt.wantCookie {
				assert.Nil(t, c)
				return
			}
			require.NotNil(t, c)
			assert.True(t, gate.HasSession(c.Value))
			assert.Equal(t, gate.RedirectDashboard, gate.Decide("/login", gate.HasSession(c.Value)))
		})
	}
}
