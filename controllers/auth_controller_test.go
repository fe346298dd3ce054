package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/models"
	"github.com/ericLeal19/compleal/utils"
)

func newAuthRouter(store database.Store) *gin.Engine {
	r := gin.New()
	r.POST("/api/auth/register", Register(store, testJWTSecret))
	r.POST("/api/auth/login", Login(store, testJWTSecret))
	return r
}

func TestRegisterThenLogin(t *testing.T) {
	store := database.NewMemoryStore()
	r := newAuthRouter(store)

	w := perform(r, http.MethodPost, "/api/auth/register", gin.H{
		"nome":      "Ana",
		"sobrenome": "Silva",
		"email":     "Ana@Exemplo.com",
		"senha":     "s3nha-forte",
		"idade":     "27",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		Token   string         `json:"token"`
		Usuario models.Profile `json:"usuario"`
	}
	decodeBody(t, w, &created)
	assert.NotEmpty(t, created.Token)
	assert.Equal(t, "ana@exemplo.com", created.Usuario.Email, "e-mail normalized")
	require.NotNil(t, created.Usuario.Idade)
	assert.Equal(t, 27, *created.Usuario.Idade)

	w = perform(r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ANA@exemplo.com",
		"senha": "s3nha-forte",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var logged struct {
		Token   string         `json:"token"`
		Usuario models.Profile `json:"usuario"`
	}
	decodeBody(t, w, &logged)
	assert.Equal(t, created.Usuario.ID, logged.Usuario.ID)

	claims, err := utils.ValidateToken(logged.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, "ana@exemplo.com", claims.Email)
	assert.Equal(t, created.Usuario.ID, claims.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	store := database.NewMemoryStore()
	r := newAuthRouter(store)

	body := gin.H{"nome": "Ana", "sobrenome": "Silva", "email": "ana@exemplo.com", "senha": "x12345"}
	w := perform(r, http.MethodPost, "/api/auth/register", body, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodPost, "/api/auth/register", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "Este e-mail já está cadastrado.", resp["error"])
}

func TestRegisterMissingFields(t *testing.T) {
	store := database.NewMemoryStore()
	r := newAuthRouter(store)

	w := perform(r, http.MethodPost, "/api/auth/register", gin.H{"email": "a@b.c"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	store := database.NewMemoryStore()
	r := newAuthRouter(store)

	w := perform(r, http.MethodPost, "/api/auth/register", gin.H{
		"nome": "Ana", "sobrenome": "Silva", "email": "ana@exemplo.com", "senha": "certa123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = perform(r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ana@exemplo.com", "senha": "errada",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "E-mail ou senha incorretos.", resp["error"])
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	store := database.NewMemoryStore()
	r := newAuthRouter(store)

	w := perform(r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "ninguem@exemplo.com", "senha": "qualquer",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	var resp map[string]string
	decodeBody(t, w, &resp)
	assert.Equal(t, "E-mail ou senha incorretos.", resp["error"])
}

func TestLoginGoogleOnlyAccount(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()

	gid := "g-123"
	user := models.User{
		ID:       "u-google",
		Nome:     "Bia",
		Email:    "bia@exemplo.com",
		GoogleID: &gid,
		Provider: models.ProviderGoogle,
	}
	require.NoError(t, database.SetJSON(ctx, store, database.UserKey(user.ID), user))
	require.NoError(t, store.Set(ctx, database.EmailKey(user.Email), user.ID))

	r := newAuthRouter(store)
	w := perform(r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "bia@exemplo.com", "senha": "tanto-faz",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "criada com o Google")
}

func newProfileRouter(store database.Store, userID string) (*gin.Engine, map[string]string) {
	r := gin.New()
	r.GET("/api/auth/me", fakeAuth(userID), GetProfile(store))
	r.PUT("/api/auth/me", fakeAuth(userID), UpdateProfile(store))
	return r, nil
}

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func TestUpdateProfileMerge(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()

	idade := 30
	prof := "engenheira"
	user := models.User{
		ID: "u-1", Nome: "Ana", Sobrenome: "Silva", Email: "ana@exemplo.com",
		Idade: &idade, Profissao: &prof, Provider: models.ProviderEmail,
	}
	require.NoError(t, database.SetJSON(ctx, store, database.UserKey(user.ID), user))

	r, _ := newProfileRouter(store, "u-1")

	// only nome provided: everything else preserved
	w := perform(r, http.MethodPut, "/api/auth/me", gin.H{"nome": "Anna"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var p models.Profile
	decodeBody(t, w, &p)
	assert.Equal(t, "Anna", p.Nome)
	assert.Equal(t, "Silva", p.Sobrenome)
	require.NotNil(t, p.Idade)
	assert.Equal(t, 30, *p.Idade)
	require.NotNil(t, p.Profissao)
	assert.Equal(t, "engenheira", *p.Profissao)

	// falsy values clear the optional fields
	w = perform(r, http.MethodPut, "/api/auth/me", gin.H{"idade": 0, "profissao": ""}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &p)
	assert.Nil(t, p.Idade)
	assert.Nil(t, p.Profissao)
}

func TestGetProfileNotFound(t *testing.T) {
	store := database.NewMemoryStore()
	r, _ := newProfileRouter(store, "fantasma")

	w := perform(r, http.MethodGet, "/api/auth/me", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResolveGoogleUserCreates(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()

	user, err := resolveGoogleUser(ctx, store, "g-1", "Novo@Exemplo.com", "Novo", "Usuário")
	require.NoError(t, err)
	assert.Equal(t, "novo@exemplo.com", user.Email)
	assert.Equal(t, models.ProviderGoogle, user.Provider)
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-1", *user.GoogleID)

	id, err := store.Get(ctx, database.GoogleKey("g-1"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	id, err = store.Get(ctx, database.EmailKey("novo@exemplo.com"))
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
}

func TestResolveGoogleUserMergesPasswordAccount(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()

	hash := "$2a$10$hash"
	existing := models.User{
		ID: "u-senha", Nome: "Ana", Email: "ana@exemplo.com",
		SenhaHash: &hash, Provider: models.ProviderEmail,
	}
	require.NoError(t, database.SetJSON(ctx, store, database.UserKey(existing.ID), existing))
	require.NoError(t, store.Set(ctx, database.EmailKey(existing.Email), existing.ID))

	user, err := resolveGoogleUser(ctx, store, "g-2", "ana@exemplo.com", "Ana", "Silva")
	require.NoError(t, err)
	assert.Equal(t, "u-senha", user.ID, "no duplicate account")
	require.NotNil(t, user.GoogleID)
	assert.Equal(t, "g-2", *user.GoogleID)
	require.NotNil(t, user.SenhaHash, "password kept after linking")

	// google index written, so the next login resolves directly
	id, err := store.Get(ctx, database.GoogleKey("g-2"))
	require.NoError(t, err)
	assert.Equal(t, "u-senha", id)

	again, err := resolveGoogleUser(ctx, store, "g-2", "ana@exemplo.com", "Ana", "Silva")
	require.NoError(t, err)
	assert.Equal(t, "u-senha", again.ID)
}

func TestResolveGoogleUserDanglingIndex(t *testing.T) {
	store := database.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, database.GoogleKey("g-3"), "nao-existe"))

	_, err := resolveGoogleUser(ctx, store, "g-3", "x@exemplo.com", "X", "Y")
	assert.ErrorIs(t, err, errUserIndexDangling)
}
