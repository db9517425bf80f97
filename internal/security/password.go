package security

import "golang.org/x/crypto/bcrypt"

// HashPassword : bcrypt с уникальной солью на каждый вызов
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword : сравнение за константное время.
// На битом хэше не паникует, просто возвращает false.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
