package service

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost bcrypt 固定成本
const PasswordCost = 10

// HashPassword 使用 bcrypt 加密密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword 校验密码，不匹配或哈希损坏均返回 false
func VerifyPassword(password, hash string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

type passwordPolicyError struct {
	minLength int
}

func (e passwordPolicyError) Error() string {
	return fmt.Sprintf("Password must be at least %d characters", e.minLength)
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func validatePassword(minLength int, password string) error {
	if minLength <= 0 {
		return nil
	}
	if utf8.RuneCountInString(password) < minLength {
		return passwordPolicyError{minLength: minLength}
	}
	return nil
}
