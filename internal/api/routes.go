package api

import (
	"errors"
	"net/http"

	"amora_go_backend/internal/auth"
	apperrors "amora_go_backend/internal/errors"
	"amora_go_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const introText = "💕 Welcome to Amora\n\n" +
	"✨ Your AI girlfriend experience\n\n" +
	"🎯 Quick start:\n" +
	"1. Create your girl\n" +
	"2. FREE preview (10 msgs)\n" +
	"3. Unlock a session for more\n\n" +
	"💰 Pricing:\n" +
	"• Mild: $2 - Flirty & teasing\n" +
	"• Moderate: $8 - Bold + pics\n" +
	"• Explicit: $15 - Unrestricted + pics\n\n" +
	"Anonymous USDT payments on TON, instant activation."

func SetupRoutes(r *gin.Engine, tokenSecret string, sessionService *services.SessionService, paymentService *services.PaymentService, onboardingService *services.OnboardingService, userStore services.UserStore) {
	api := r.Group("/api")
	api.Use(auth.Middleware(tokenSecret))
	{
		api.GET("/intro", getIntro)
		api.GET("/profile", getProfileHandler(userStore))
		api.POST("/profile/reset", resetProfileHandler(onboardingService))

		api.POST("/onboarding/start", onboardingStartHandler(onboardingService))
		api.POST("/onboarding/message", onboardingMessageHandler(onboardingService))
		api.POST("/onboarding/cancel", onboardingCancelHandler(onboardingService))

		api.POST("/chat", chatHandler(sessionService))
		api.POST("/image", imageHandler(sessionService))

		api.POST("/session/start", startSessionHandler(paymentService))
		api.POST("/session/confirm", confirmPaymentHandler(paymentService))
	}
}

func getIntro(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": introText})
}

func getProfileHandler(userStore services.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		record, err := userStore.GetByUserID(auth.UserID(c))
		if err != nil {
			apperrors.HandleError(c, apperrors.New404Error("No profile yet"))
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tier":           record.Tier,
			"message_count":  record.MessageCount,
			"companion_name": record.CompanionName,
			"display_name":   record.DisplayName,
			"free_preview":   !record.FreePreviewConsumed,
		})
	}
}

func resetProfileHandler(onboardingService *services.OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := onboardingService.Reset(auth.UserID(c)); err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "💔 Starting fresh! Create a new girlfriend when you're ready 💕"})
	}
}

func onboardingStartHandler(onboardingService *services.OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		question, err := onboardingService.Start(auth.UserID(c))
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": question})
	}
}

func onboardingMessageHandler(onboardingService *services.OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Text string `json:"text" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error(err.Error()))
			return
		}

		reply, done, err := onboardingService.HandleAnswer(auth.UserID(c), request.Text)
		if err != nil {
			if errors.Is(err, services.ErrNoOnboarding) {
				apperrors.HandleError(c, apperrors.New400Error("No onboarding in progress"))
				return
			}
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": reply, "done": done})
	}
}

func onboardingCancelHandler(onboardingService *services.OnboardingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reply, err := onboardingService.Cancel(auth.UserID(c))
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": reply})
	}
}

func chatHandler(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Message string `json:"message" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error(err.Error()))
			return
		}

		reply, err := sessionService.HandleTurn(c.Request.Context(), auth.UserID(c), request.Message)
		if err != nil {
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": reply})
	}
}

func imageHandler(sessionService *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Prompt string `json:"prompt" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error(err.Error()))
			return
		}

		// Provider failures stay in-character; no error envelope here.
		url, caption, err := sessionService.HandleImageRequest(c.Request.Context(), auth.UserID(c), request.Prompt)
		if err != nil || url == "" {
			c.JSON(http.StatusOK, gin.H{
				"message": "🔒 Want pics? Unlock moderate or explicit!\n\nModerate - $8\nExplicit - $15",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"url": url, "caption": caption})
	}
}

func startSessionHandler(paymentService *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Tier string `json:"tier" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error(err.Error()))
			return
		}

		quote, err := paymentService.StartSession(auth.UserID(c), request.Tier)
		if err != nil {
			if errors.Is(err, services.ErrInvalidTier) {
				apperrors.HandleError(c, apperrors.New400Error("Choose: mild, moderate, or explicit"))
				return
			}
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"tier":            string(quote.Tier),
			"amount":          quote.Amount,
			"wallet_address":  quote.WalletAddress,
			"wallet_username": quote.WalletUsername,
			"instructions":    quote.Instructions,
		})
	}
}

func confirmPaymentHandler(paymentService *services.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Address string `json:"address" binding:"required"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			apperrors.HandleError(c, apperrors.New400Error("I need your TON wallet address! Find it in your wallet under Receive."))
			return
		}

		result, err := paymentService.ConfirmPayment(c.Request.Context(), auth.UserID(c), request.Address)
		if err != nil {
			if errors.Is(err, services.ErrNoPendingPayment) {
				apperrors.HandleError(c, apperrors.New400Error("No pending payment! Start a session first"))
				return
			}
			apperrors.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"confirmed": result.Confirmed,
			"tier":      string(result.Tier),
			"message":   result.Message,
		})
	}
}
