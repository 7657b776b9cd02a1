package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/feral-file/ff-settlement/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		// Public reads
		v1.GET("/protocol/version", handler.GetVersion)
		v1.GET("/protocol/config", handler.GetConfig)
		v1.GET("/protocol/counter", handler.GetCounter)
		v1.GET("/collections", handler.ListCollections)
		v1.GET("/listings", handler.ListListings)
		v1.GET("/listings/:collection/:token_id/:seller", handler.GetListing)
		v1.GET("/royalties/:beneficiary", handler.GetClaimableRoyalty)
		v1.GET("/payments/:account", handler.GetPaymentBalance)
		v1.GET("/journal", handler.GetJournal)

		// Market operations, caller is the token subject
		authed := v1.Group("", middleware.Auth(authCfg))
		authed.POST("/listings", handler.AddItem)
		authed.POST("/listings/cancel", handler.CancelItem)
		authed.POST("/listings/metadata", handler.UpdateItemMetaData)
		authed.POST("/trades/buy", handler.BuyItem)
		authed.POST("/trades/accept", handler.AcceptItem)
		authed.POST("/royalties/claim", handler.ClaimRoyalty)
		authed.POST("/payments/approve", handler.ApprovePayment)
		authed.POST("/assets/approval", handler.SetAssetApproval)

		// Admin operations, the manager checks the caller against the admin
		admin := v1.Group("/admin", middleware.Auth(authCfg))
		admin.PUT("/service-fee", handler.SetServiceFee)
		admin.POST("/collections", handler.AddSKCollection)
		admin.DELETE("/collections/:collection", handler.RemoveSKCollection)
		admin.PUT("/collections/:collection/market", handler.SetMarketAddressForNFTCollection)
		admin.PUT("/collections/:collection/royalty", handler.SetRoyaltyPolicy)
		admin.PUT("/team-wallet", handler.SetTeamWallet)
		admin.PUT("/signer", handler.SetSigner)
		admin.PUT("/ownership", handler.TransferOwnership)
		admin.PUT("/counter", handler.SetCounter)
		admin.POST("/upgrade", handler.Upgrade)
		admin.POST("/deposits", handler.Deposit)
	}
}
