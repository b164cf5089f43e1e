package mocks

import (
	"context"

	"github.com/amirasaad/eaglebank/pkg/domain/account"
	"github.com/amirasaad/eaglebank/pkg/domain/user"
	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockAccountRepository is a mock type for the AccountRepository type
type MockAccountRepository struct {
	mock.Mock
}

func NewMockAccountRepository(t testingT) *MockAccountRepository {
	m := &MockAccountRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockAccountRepository) Save(ctx context.Context, a *account.Account) (*account.Account, error) {
	ret := _m.Called(ctx, a)
	if rf, ok := ret.Get(0).(func(context.Context, *account.Account) (*account.Account, error)); ok {
		return rf(ctx, a)
	}
	var r0 *account.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) Get(ctx context.Context, id account.ID) (*account.Account, error) {
	ret := _m.Called(ctx, id)
	var r0 *account.Account
	if v := ret.Get(0); v != nil {
		r0 = v.(*account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) ListByOwner(ctx context.Context, ownerID user.ID) ([]*account.Account, error) {
	ret := _m.Called(ctx, ownerID)
	var r0 []*account.Account
	if v := ret.Get(0); v != nil {
		r0 = v.([]*account.Account)
	}
	return r0, ret.Error(1)
}

func (_m *MockAccountRepository) Delete(ctx context.Context, id account.ID) error {
	return _m.Called(ctx, id).Error(0)
}

func (_m *MockAccountRepository) ExistsByNumber(ctx context.Context, number account.Number) (bool, error) {
	ret := _m.Called(ctx, number)
	return ret.Bool(0), ret.Error(1)
}

// MockTransactionRepository is a mock type for the TransactionRepository type
type MockTransactionRepository struct {
	mock.Mock
}

func NewMockTransactionRepository(t testingT) *MockTransactionRepository {
	m := &MockTransactionRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockTransactionRepository) Save(ctx context.Context, txn *account.Transaction) error {
	return _m.Called(ctx, txn).Error(0)
}

func (_m *MockTransactionRepository) Get(ctx context.Context, id account.TransactionID) (*account.Transaction, error) {
	ret := _m.Called(ctx, id)
	var r0 *account.Transaction
	if v := ret.Get(0); v != nil {
		r0 = v.(*account.Transaction)
	}
	return r0, ret.Error(1)
}

func (_m *MockTransactionRepository) ListByAccount(ctx context.Context, accountID account.ID) ([]*account.Transaction, error) {
	ret := _m.Called(ctx, accountID)
	var r0 []*account.Transaction
	if v := ret.Get(0); v != nil {
		r0 = v.([]*account.Transaction)
	}
	return r0, ret.Error(1)
}

// MockUserRepository is a mock type for the UserRepository type
type MockUserRepository struct {
	mock.Mock
}

func NewMockUserRepository(t testingT) *MockUserRepository {
	m := &MockUserRepository{}
	m.Mock.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (_m *MockUserRepository) Save(ctx context.Context, u *user.User) error {
	return _m.Called(ctx, u).Error(0)
}

func (_m *MockUserRepository) Get(ctx context.Context, id user.ID) (*user.User, error) {
	ret := _m.Called(ctx, id)
	var r0 *user.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*user.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) GetByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	ret := _m.Called(ctx, email)
	var r0 *user.User
	if v := ret.Get(0); v != nil {
		r0 = v.(*user.User)
	}
	return r0, ret.Error(1)
}

func (_m *MockUserRepository) Delete(ctx context.Context, id user.ID) error {
	return _m.Called(ctx, id).Error(0)
}

var (
	_ repository.AccountRepository     = (*MockAccountRepository)(nil)
	_ repository.TransactionRepository = (*MockTransactionRepository)(nil)
	_ repository.UserRepository        = (*MockUserRepository)(nil)
)
