// Package apperr описывает типизированные ошибки ядра. Каждый путь отказа
// имеет свой Kind, транспорт сопоставляет Kind со статусом через switch.
package apperr

import (
	"errors"
	"fmt"
)

type Kind uint8

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindSelfTransfer
	KindInsufficientBalance
	KindInvalidRecipient
	KindTransactionAbort
	KindAuth
	KindConflict
	KindPersistence
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindSelfTransfer:
		return "self_transfer"
	case KindInsufficientBalance:
		return "insufficient_balance"
	case KindInvalidRecipient:
		return "invalid_recipient"
	case KindTransactionAbort:
		return "transaction_abort"
	case KindAuth:
		return "auth"
	case KindConflict:
		return "conflict"
	case KindPersistence:
		return "persistence"
	default:
		return "internal"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает по Kind и сообщению, поэтому обернутая копия сентинела
// остается равной ему для errors.Is
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// Wrap возвращает копию ошибки с причиной err
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Msg: e.Msg, Err: err}
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// KindOf возвращает Kind первой *Error в цепочке, иначе KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Message возвращает безопасное для клиента сообщение
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return "internal error"
}

var (
	// transfer
	ErrSelfTransfer            = New(KindSelfTransfer, "cannot send money to yourself")
	ErrSenderAccountNotFound   = New(KindNotFound, "sender account not found")
	ErrInsufficientBalance     = New(KindInsufficientBalance, "insufficient balance")
	ErrInvalidRecipient        = New(KindInvalidRecipient, "invalid recipient")
	ErrInvalidRecipientAccount = New(KindInvalidRecipient, "invalid recipient account")
	ErrInvalidAmount           = New(KindValidation, "amount must be positive with at most two decimals")

	// accounts and users
	ErrAccountNotFound = New(KindNotFound, "account not found")
	ErrUserNotFound    = New(KindNotFound, "user not found")
	ErrEmailTaken      = New(KindConflict, "user with email already exists")

	// auth
	ErrUnauthorized      = New(KindAuth, "unauthorized")
	ErrInvalidToken      = New(KindAuth, "invalid token")
	ErrTokenExpired      = New(KindAuth, "token expired")
	ErrSessionRevoked    = New(KindAuth, "session revoked")
	ErrIncorrectPassword = New(KindAuth, "incorrect password")

	// infrastructure
	ErrTransactionAborted = New(KindTransactionAbort, "transaction aborted")
	ErrPersistence        = New(KindPersistence, "storage unavailable")
)
