// Package mocks provides testify mocks for the repository interfaces.
package mocks

import (
	"context"

	"github.com/amirasaad/eaglebank/pkg/repository"
	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock type for the UnitOfWork type
type MockUnitOfWork struct {
	mock.Mock
}

type MockUnitOfWork_Expecter struct {
	mock *mock.Mock
}

func (_m *MockUnitOfWork) EXPECT() *MockUnitOfWork_Expecter {
	return &MockUnitOfWork_Expecter{mock: &_m.Mock}
}

// Do provides a mock function with given fields: ctx, fn
func (_m *MockUnitOfWork) Do(ctx context.Context, fn func(repository.UnitOfWork) error) error {
	ret := _m.Called(ctx, fn)

	if len(ret) == 0 {
		panic("no return value specified for Do")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, func(repository.UnitOfWork) error) error); ok {
		r0 = rf(ctx, fn)
	} else {
		r0 = ret.Error(0)
	}
	return r0
}

// MockUnitOfWork_Do_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Do'
type MockUnitOfWork_Do_Call struct {
	*mock.Call
}

// Do is a helper method to define mock.On call
func (_e *MockUnitOfWork_Expecter) Do(ctx interface{}, fn interface{}) *MockUnitOfWork_Do_Call {
	return &MockUnitOfWork_Do_Call{Call: _e.mock.On("Do", ctx, fn)}
}

func (_c *MockUnitOfWork_Do_Call) Return(_a0 error) *MockUnitOfWork_Do_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockUnitOfWork_Do_Call) RunAndReturn(run func(context.Context, func(repository.UnitOfWork) error) error) *MockUnitOfWork_Do_Call {
	_c.Call.Return(run)
	return _c
}

// AccountRepository provides a mock function with no fields
func (_m *MockUnitOfWork) AccountRepository() (repository.AccountRepository, error) {
	ret := _m.Called()
	var r0 repository.AccountRepository
	if v := ret.Get(0); v != nil {
		r0 = v.(repository.AccountRepository)
	}
	return r0, ret.Error(1)
}

type MockUnitOfWork_AccountRepository_Call struct {
	*mock.Call
}

func (_e *MockUnitOfWork_Expecter) AccountRepository() *MockUnitOfWork_AccountRepository_Call {
	return &MockUnitOfWork_AccountRepository_Call{Call: _e.mock.On("AccountRepository")}
}

func (_c *MockUnitOfWork_AccountRepository_Call) Return(_a0 repository.AccountRepository, _a1 error) *MockUnitOfWork_AccountRepository_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// TransactionRepository provides a mock function with no fields
func (_m *MockUnitOfWork) TransactionRepository() (repository.TransactionRepository, error) {
	ret := _m.Called()
	var r0 repository.TransactionRepository
	if v := ret.Get(0); v != nil {
		r0 = v.(repository.TransactionRepository)
	}
	return r0, ret.Error(1)
}

type MockUnitOfWork_TransactionRepository_Call struct {
	*mock.Call
}

func (_e *MockUnitOfWork_Expecter) TransactionRepository() *MockUnitOfWork_TransactionRepository_Call {
	return &MockUnitOfWork_TransactionRepository_Call{Call: _e.mock.On("TransactionRepository")}
}

func (_c *MockUnitOfWork_TransactionRepository_Call) Return(_a0 repository.TransactionRepository, _a1 error) *MockUnitOfWork_TransactionRepository_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// UserRepository provides a mock function with no fields
func (_m *MockUnitOfWork) UserRepository() (repository.UserRepository, error) {
	ret := _m.Called()
	var r0 repository.UserRepository
	if v := ret.Get(0); v != nil {
		r0 = v.(repository.UserRepository)
	}
	return r0, ret.Error(1)
}

type MockUnitOfWork_UserRepository_Call struct {
	*mock.Call
}

func (_e *MockUnitOfWork_Expecter) UserRepository() *MockUnitOfWork_UserRepository_Call {
	return &MockUnitOfWork_UserRepository_Call{Call: _e.mock.On("UserRepository")}
}

func (_c *MockUnitOfWork_UserRepository_Call) Return(_a0 repository.UserRepository, _a1 error) *MockUnitOfWork_UserRepository_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

// NewMockUnitOfWork creates a new instance of MockUnitOfWork. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockUnitOfWork(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockUnitOfWork {
	m := &MockUnitOfWork{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

var _ repository.UnitOfWork = (*MockUnitOfWork)(nil)
