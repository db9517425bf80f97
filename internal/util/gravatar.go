package util

import (
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// GravatarLookup : best-effort поиск аватара по email через gravatar.com.
// Любая ошибка означает «аватара нет», наружу ошибки не выходят.
type GravatarLookup struct {
	client *http.Client
}

func NewGravatarLookup() *GravatarLookup {
	return &GravatarLookup{
		client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *GravatarLookup) Lookup(email string) (string, bool) {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	url := fmt.Sprintf("https://www.gravatar.com/avatar/%x", sum)

	// d=404 заставляет gravatar отвечать 404 вместо заглушки
	resp, err := g.client.Head(url + "?d=404")
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", false
	}
	return url, true
}
