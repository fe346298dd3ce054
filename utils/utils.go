package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/unicode/norm"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 30 * 24 * time.Hour

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPassword(hash string, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// Claims is the session payload carried inside the JWT. Validity is entirely
// signature + expiry; nothing is persisted server-side.
type Claims struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Nome      string `json:"nome"`
	Sobrenome string `json:"sobrenome"`
	jwt.RegisteredClaims
}

func GenerateSessionToken(id, email, nome, sobrenome, secret string) (string, error) {
	claims := Claims{
		ID:        id,
		Email:     email,
		Nome:      nome,
		Sobrenome: sobrenome,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateToken(tokenStr string, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return token.Claims.(*Claims), nil
}

var mlbPattern = regexp.MustCompile(`(?i)MLB-?(\d+)`)

// DeriveProductID derives a stable catalog id from a product page URL.
// Marketplace URLs keep their human-recognizable listing id ("MLB" + digits),
// which also makes re-scraping the same listing idempotent. Anything else
// gets a deterministic 32-bit rolling hash of the URL, formatted as
// "PROD<abs(hash)>". Collisions are not detected; two URLs hashing to the
// same value silently alias one product.
func DeriveProductID(url string) string {
	if m := mlbPattern.FindStringSubmatch(url); m != nil {
		return "MLB" + m[1]
	}
	var hash int32
	for _, r := range url {
		hash = hash*31 + int32(r)
	}
	abs := int64(hash)
	if abs < 0 {
		abs = -abs
	}
	return fmt.Sprintf("PROD%d", abs)
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug lowercases, strips accents and collapses everything else to
// hyphens.
func GenerateSlug(name string) string {
	t := norm.NFD.String(name)
	var b strings.Builder
	for _, r := range t {
		if unicode.Is(unicode.Mn, r) {
			continue // remove accent marks
		}
		b.WriteRune(r)
	}

	s := strings.ToLower(b.String())
	s = slugPattern.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ParseIntDefault parses v, falling back to def when it is empty, malformed
// or not a positive number. Callers use it for counts and limits, where zero
// or negative input means "give me the default page".
func ParseIntDefault(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
