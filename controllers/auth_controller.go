package controllers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2v2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/ericLeal19/compleal/config"
	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/dto"
	"github.com/ericLeal19/compleal/models"
	"github.com/ericLeal19/compleal/utils"
)

// POST /api/auth/register
func Register(store database.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.RegisterDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido", "details": err.Error()})
			return
		}
		if body.Nome == "" || body.Sobrenome == "" || body.Email == "" || body.Senha == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "nome, sobrenome, email e senha são obrigatórios."})
			return
		}

		ctx := c.Request.Context()
		email := strings.ToLower(strings.TrimSpace(body.Email))

		existingID, err := store.Get(ctx, database.EmailKey(email))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if existingID != "" {
			c.JSON(http.StatusConflict, gin.H{"error": "Este e-mail já está cadastrado."})
			return
		}

		hash, err := utils.HashPassword(body.Senha)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar hash da senha"})
			return
		}

		user := models.User{
			ID:        uuid.New().String(),
			Nome:      body.Nome,
			Sobrenome: body.Sobrenome,
			Email:     email,
			SenhaHash: &hash,
			Provider:  models.ProviderEmail,
			CriadoEm:  time.Now().UTC(),
		}
		if body.Idade != nil && *body.Idade != 0 {
			idade := int(*body.Idade)
			user.Idade = &idade
		}
		if body.Profissao != "" {
			user.Profissao = &body.Profissao
		}

		if err := database.SetJSON(ctx, store, database.UserKey(user.ID), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}
		if err := store.Set(ctx, database.EmailKey(email), user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}

		token, err := utils.GenerateSessionToken(user.ID, user.Email, user.Nome, user.Sobrenome, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar token"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"token": token, "usuario": user.Profile()})
	}
}

// POST /api/auth/login
// The error message never reveals whether the e-mail
// exists.
func Login(store database.Store, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.LoginDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido", "details": err.Error()})
			return
		}
		if body.Email == "" || body.Senha == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email e senha são obrigatórios."})
			return
		}

		ctx := c.Request.Context()
		email := strings.ToLower(strings.TrimSpace(body.Email))

		id, err := store.Get(ctx, database.EmailKey(email))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if id == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha incorretos."})
			return
		}

		var user models.User
		found, err := database.GetJSON(ctx, store, database.UserKey(id), &user)
		if err != nil || !found {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha incorretos."})
			return
		}

		if user.SenhaHash == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": `Esta conta foi criada com o Google. Use "Entrar com Google".`})
			return
		}
		if err := utils.CheckPassword(*user.SenhaHash, body.Senha); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail ou senha incorretos."})
			return
		}

		token, err := utils.GenerateSessionToken(user.ID, user.Email, user.Nome, user.Sobrenome, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao gerar token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "usuario": user.Profile()})
	}
}

// GET /api/auth/me
func GetProfile(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		var user models.User
		found, err := database.GetJSON(c.Request.Context(), store, database.UserKey(userID), &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}

		c.JSON(http.StatusOK, user.Profile())
	}
}

// PUT /api/auth/me
// Provided fields override, absent fields are preserved;
// a provided falsy idade/profissao clears the field.
func UpdateProfile(store database.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("userID")

		var body dto.UpdateProfileDTO
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON inválido", "details": err.Error()})
			return
		}

		ctx := c.Request.Context()
		var user models.User
		found, err := database.GetJSON(ctx, store, database.UserKey(userID), &user)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "Usuário não encontrado."})
			return
		}

		if body.Nome != nil && *body.Nome != "" {
			user.Nome = *body.Nome
		}
		if body.Sobrenome != nil && *body.Sobrenome != "" {
			user.Sobrenome = *body.Sobrenome
		}
		if body.Idade != nil {
			if *body.Idade == 0 {
				user.Idade = nil
			} else {
				idade := int(*body.Idade)
				user.Idade = &idade
			}
		}
		if body.Profissao != nil {
			if *body.Profissao == "" {
				user.Profissao = nil
			} else {
				user.Profissao = body.Profissao
			}
		}
		now := time.Now().UTC()
		user.UpdatedAt = &now

		if err := database.SetJSON(ctx, store, database.UserKey(user.ID), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}

		c.JSON(http.StatusOK, user.Profile())
	}
}

func googleOAuthConfig(cfg config.Google) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

// GET /api/auth/google
// Redirects to the Google consent screen.
func GoogleLogin(cfg config.Google) gin.HandlerFunc {
	oauthCfg := googleOAuthConfig(cfg)
	return func(c *gin.Context) {
		authURL := oauthCfg.AuthCodeURL("",
			oauth2.AccessTypeOffline,
			oauth2.SetAuthURLParam("prompt", "select_account"),
		)
		c.Redirect(http.StatusFound, authURL)
	}
}

// resolveGoogleUser maps a Google identity onto a local account: by google
// index first, then by e-mail (merging an account created earlier with a
// password), creating a fresh user when neither matches. The google index is
// always (re)written so the next login resolves in one lookup.
func resolveGoogleUser(ctx context.Context, store database.Store, googleID, email, nome, sobrenome string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	id, err := store.Get(ctx, database.GoogleKey(googleID))
	if err != nil {
		return nil, err
	}
	if id == "" {
		id, err = store.Get(ctx, database.EmailKey(email))
		if err != nil {
			return nil, err
		}
	}

	if id == "" {
		user := models.User{
			ID:        uuid.New().String(),
			Nome:      nome,
			Sobrenome: sobrenome,
			Email:     email,
			GoogleID:  &googleID,
			Provider:  models.ProviderGoogle,
			CriadoEm:  time.Now().UTC(),
		}
		if err := database.SetJSON(ctx, store, database.UserKey(user.ID), user); err != nil {
			return nil, err
		}
		if err := store.Set(ctx, database.EmailKey(email), user.ID); err != nil {
			return nil, err
		}
		if err := store.Set(ctx, database.GoogleKey(googleID), user.ID); err != nil {
			return nil, err
		}
		return &user, nil
	}

	if err := store.Set(ctx, database.GoogleKey(googleID), id); err != nil {
		return nil, err
	}

	var user models.User
	found, err := database.GetJSON(ctx, store, database.UserKey(id), &user)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errUserIndexDangling
	}
	if user.GoogleID == nil {
		user.GoogleID = &googleID
		if err := database.SetJSON(ctx, store, database.UserKey(user.ID), user); err != nil {
			return nil, err
		}
	}
	return &user, nil
}

var errUserIndexDangling = &danglingIndexError{}

type danglingIndexError struct{}

func (*danglingIndexError) Error() string { return "índice aponta para usuário inexistente" }

// GET /api/auth/google/callback
// Exchanges the code, fetches userinfo and
// logs in (or creates) the local account, redirecting back to the site with
// the session token in the URL.
func GoogleCallback(store database.Store, cfg config.Google, jwtSecret, siteURL string) gin.HandlerFunc {
	oauthCfg := googleOAuthConfig(cfg)
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" || c.Query("error") != "" {
			c.Redirect(http.StatusFound, siteURL+"/?erro=google_cancelado")
			return
		}

		ctx := c.Request.Context()

		oauthToken, err := oauthCfg.Exchange(ctx, code)
		if err != nil {
			log.Println("[Google Callback]", err)
			c.Redirect(http.StatusFound, siteURL+"/?erro=google_falhou")
			return
		}

		svc, err := oauth2v2.NewService(ctx, option.WithTokenSource(oauthCfg.TokenSource(ctx, oauthToken)))
		if err != nil {
			log.Println("[Google Callback]", err)
			c.Redirect(http.StatusFound, siteURL+"/?erro=google_falhou")
			return
		}
		info, err := svc.Userinfo.Get().Context(ctx).Do()
		if err != nil {
			log.Println("[Google Callback]", err)
			c.Redirect(http.StatusFound, siteURL+"/?erro=google_falhou")
			return
		}

		user, err := resolveGoogleUser(ctx, store, info.Id, info.Email, info.GivenName, info.FamilyName)
		if err != nil {
			log.Println("[Google Callback]", err)
			c.Redirect(http.StatusFound, siteURL+"/?erro=google_falhou")
			return
		}

		token, err := utils.GenerateSessionToken(user.ID, user.Email, user.Nome, user.Sobrenome, jwtSecret)
		if err != nil {
			log.Println("[Google Callback]", err)
			c.Redirect(http.StatusFound, siteURL+"/?erro=google_falhou")
			return
		}

		c.Redirect(http.StatusFound, siteURL+"/?token="+url.QueryEscape(token))
	}
}
