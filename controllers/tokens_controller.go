package controllers

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ericLeal19/compleal/database"
	"github.com/ericLeal19/compleal/mercadolivre"
)

const verifierCookie = "cv"

func expiresLabel(expiresIn int) string {
	return fmt.Sprintf("%gh", float64(expiresIn)/3600)
}

// GET /api/auth/mercadolivre
// Starts the marketplace PKCE flow: the code
// verifier rides in a short-lived HttpOnly cookie until the callback.
func StartMLAuth(ml *mercadolivre.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		verifier, err := mercadolivre.GenerateVerifier()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(verifierCookie, verifier, 600, "/", "", true, true)
		c.Redirect(http.StatusFound, ml.AuthorizationURL(mercadolivre.Challenge(verifier)))
	}
}

// GET /api/callback
// Trades the authorization code for the token pair and
// persists it, so the search handler and the rotation job pick it up from
// the store.
func MLCallback(store database.Store, ml *mercadolivre.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("code")
		if code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Código de autorização ausente."})
			return
		}

		verifier, err := c.Cookie(verifierCookie)
		if err != nil || verifier == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cookie expirado ou ausente. Inicie o fluxo novamente em /api/auth/mercadolivre."})
			return
		}

		ctx := c.Request.Context()
		pair, err := ml.ExchangeCode(ctx, code, verifier)
		if err != nil {
			var exchErr *mercadolivre.ExchangeError
			if errors.As(err, &exchErr) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Erro ao trocar o token", "details": exchErr.Body})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno", "details": err.Error()})
			return
		}

		if err := store.Set(ctx, database.MLAccessTokenKey, pair.AccessToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}
		if err := store.Set(ctx, database.MLRefreshTokenKey, pair.RefreshToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}

		c.SetCookie(verifierCookie, "", -1, "/", "", true, true)
		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"expira_em": expiresLabel(pair.ExpiresIn),
			"user_id":   pair.UserID,
		})
	}
}

// GET|POST /api/renovar-tokens
// The cron-triggered daily rotation. Both
// tokens change on every refresh and are overwritten unconditionally. An
// overlapping run fails on the already-invalidated refresh token; that error
// is reported, not retried.
func RenewTokens(store database.Store, ml *mercadolivre.Client, cronSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := c.GetHeader("x-cron-secret")
		if secret == "" {
			secret = c.Query("secret")
		}
		if cronSecret == "" ||
			subtle.ConstantTimeCompare([]byte(secret), []byte(cronSecret)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Não autorizado"})
			return
		}

		ctx := c.Request.Context()
		refreshToken, err := store.Get(ctx, database.MLRefreshTokenKey)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha interna", "details": err.Error()})
			return
		}
		if refreshToken == "" {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Refresh Token não encontrado no Redis.",
				"dica":  "Refaça o fluxo OAuth em /api/auth/mercadolivre",
			})
			return
		}

		pair, err := ml.Refresh(ctx, refreshToken)
		if err != nil {
			var refErr *mercadolivre.RefreshError
			if errors.As(err, &refErr) {
				c.JSON(refErr.StatusCode, gin.H{"error": "Falha ao renovar token no Mercado Livre", "details": refErr.Body})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro interno", "details": err.Error()})
			return
		}

		if err := store.Set(ctx, database.MLAccessTokenKey, pair.AccessToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}
		if err := store.Set(ctx, database.MLRefreshTokenKey, pair.RefreshToken); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Falha ao salvar", "details": err.Error()})
			return
		}

		log.Printf("Tokens renovados com sucesso. Expira em: %s", expiresLabel(pair.ExpiresIn))

		c.JSON(http.StatusOK, gin.H{
			"ok":        true,
			"expira_em": expiresLabel(pair.ExpiresIn),
			"user_id":   pair.UserID,
		})
	}
}
