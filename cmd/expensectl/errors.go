package main

import (
	"errors"
	"fmt"

	"expense-ledger-go/internal/store"

	"go.uber.org/zap"
)

// describe turns ledger errors into messages a user can act on.
func describe(err error) error {
	var verr *store.ValidationError
	var uerr *store.UnavailableError

	switch {
	case errors.As(err, &verr):
		return fmt.Errorf("invalid input: %s %s", verr.Field, verr.Constraint)
	case errors.Is(err, store.ErrUserNotFound):
		return errors.New("you are not registered yet, run 'expensectl adduser' first")
	case errors.Is(err, store.ErrDuplicateUser):
		return errors.New("that username or external id is already registered")
	case errors.As(err, &uerr):
		zap.L().Error("Store unavailable", zap.String("op", uerr.Op), zap.Error(uerr.Cause()))
		return errors.New("the ledger is temporarily unavailable, please try again")
	default:
		return err
	}
}
