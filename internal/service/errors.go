package service

import (
	"errors"
)

const (
	BadRequest          = 400
	Unauthorized        = 401
	Forbidden           = 403
	NotFound            = 404
	Expired             = 410
	TooManyRequests     = 429
	InternalServerError = 500
)

var (
	ErrParamInvalid         = errors.New("invalid parameters")
	ErrEmailNotFound        = errors.New("sorry! we cannot find that email address")
	ErrPasswordIncorrect    = errors.New("sorry! that password is incorrect")
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("an account for that email already exists")
	ErrUserInactive         = errors.New("inactive user")
	ErrApartmentNotFound    = errors.New("no apartment matches that search criteria")
	ErrAdNotFound           = errors.New("ad not found")
	ErrChatNotFound         = errors.New("chat not found")
	ErrChatBlocked          = errors.New("this conversation is blocked")
	ErrTooManyOtpRequests   = errors.New("too many OTP requests, try again later")
	ErrOtpExpired           = errors.New("the OTP has expired")
	ErrOtpInvalid           = errors.New("the OTP is incorrect")
	ErrVerificationInvalid  = errors.New("the verification link is invalid or has expired")
	ErrEmailSendFailed      = errors.New("the email could not be sent")
	ErrFileNotSupported     = errors.New("unsupported file type")
	UnauthorizedError       = errors.New("could not validate those credentials")
	ErrPersistence          = errors.New("persistence failure")
	UnExpectedError         = errors.New("something went wrong, please retry")
)

var ErrorMap = map[error]int{
	ErrParamInvalid:        BadRequest,
	ErrEmailNotFound:       Unauthorized,
	ErrPasswordIncorrect:   Unauthorized,
	ErrUserNotFound:        NotFound,
	ErrUserExists:          Forbidden,
	ErrUserInactive:        BadRequest,
	ErrApartmentNotFound:   NotFound,
	ErrAdNotFound:          NotFound,
	ErrChatNotFound:        NotFound,
	ErrChatBlocked:         Forbidden,
	ErrTooManyOtpRequests:  TooManyRequests,
	ErrOtpExpired:          Expired,
	ErrOtpInvalid:          Unauthorized,
	ErrVerificationInvalid: Expired,
	ErrEmailSendFailed:     Forbidden,
	ErrFileNotSupported:    BadRequest,
	UnauthorizedError:      Unauthorized,
	ErrPersistence:         InternalServerError,
	UnExpectedError:        InternalServerError,
}
