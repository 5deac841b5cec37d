package authflow_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/stainley/CareerLaunch/pkg/idp"
	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

// MockIdentityProvider is a mock implementation of idp.Client.
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) Login(ctx context.Context, creds idp.Credentials) (idp.LoginResult, error) {
	args := m.Called(ctx, creds)
	return args.Get(0).(idp.LoginResult), args.Error(1)
}

func (m *MockIdentityProvider) VerifyTwoFactor(ctx context.Context, userID, code string) (string, error) {
	args := m.Called(ctx, userID, code)
	return args.String(0), args.Error(1)
}

func (m *MockIdentityProvider) Signup(ctx context.Context, email, password string) (idp.Enrollment, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(idp.Enrollment), args.Error(1)
}

func (m *MockIdentityProvider) UserInfo(ctx context.Context) (idp.UserProfile, error) {
	args := m.Called(ctx)
	return args.Get(0).(idp.UserProfile), args.Error(1)
}

// MockExchanger is a mock implementation of exchange.Exchanger.
type MockExchanger struct {
	mock.Mock
}

func (m *MockExchanger) AuthCodeURL() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockExchanger) Exchange(ctx context.Context, code string) (tokenstore.Token, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(tokenstore.Token), args.Error(1)
}
