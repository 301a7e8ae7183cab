// Command keygen provisions the token secret. Run once during setup: it
// generates a fresh 32-byte key and appends SECRET_KEY to .env unless one
// is already present. Rotating the key invalidates every outstanding
// campaign link, so it never runs automatically.
package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ignite/phishsim/internal/token"
)

func main() {
	envPath := ".env"
	if len(os.Args) > 1 {
		envPath = os.Args[1]
	}

	key, err := ensureSecretKey(envPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("SECRET_KEY in", envPath+":", key)
}

func ensureSecretKey(envPath string) (string, error) {
	raw := make([]byte, token.KeySize)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	newKey := base64.StdEncoding.EncodeToString(raw)
	line := "SECRET_KEY=" + newKey + "\n"

	content, err := os.ReadFile(envPath)
	if os.IsNotExist(err) {
		if err := os.WriteFile(envPath, []byte(line), 0600); err != nil {
			return "", err
		}
		log.Printf("created %s with SECRET_KEY", envPath)
		return newKey, nil
	}
	if err != nil {
		return "", err
	}

	for _, l := range strings.Split(string(content), "\n") {
		if strings.HasPrefix(strings.TrimSpace(l), "SECRET_KEY=") {
			log.Printf("SECRET_KEY already exists in %s, no changes made", envPath)
			return strings.SplitN(strings.TrimSpace(l), "=", 2)[1], nil
		}
	}

	f, err := os.OpenFile(envPath, os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := f.WriteString(line); err != nil {
		return "", err
	}
	log.Printf("appended SECRET_KEY to %s", envPath)
	return newKey, nil
}
