package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/payorbit/wallet-panel-api/internal/middleware"
	"github.com/payorbit/wallet-panel-api/internal/models"
	"github.com/payorbit/wallet-panel-api/internal/session"
	"github.com/payorbit/wallet-panel-api/internal/tokenstore"
)

// Handlers bundles everything Register wires onto the engine. Audit may be
// nil when the trail is disabled.
type Handlers struct {
	Auth        *AuthHandler
	Dashboard   *DashboardHandler
	Wallet      *WalletHandler
	Party       *PartyHandler
	Mutation    *MutationHandler
	FundRequest *FundRequestHandler
	Audit       *AuditHandler
}

// Register mounts the panel API. The login endpoint is the only
// unauthenticated route under the prefix; everything else sits behind the
// session guard, and the per-role groups add the role guard on top.
func Register(r *gin.Engine, prefix string, h Handlers, store tokenstore.Store, resolver *session.Resolver, logger *zap.Logger) {
	api := r.Group(prefix)
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("", middleware.Session(store, resolver, logger))

	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/auth/me", h.Auth.Me)

	authed.GET("/dashboard", h.Dashboard.Summary)

	authed.GET("/wallet/balance", h.Wallet.Balance)
	authed.GET("/wallet/transactions", h.Wallet.Transactions)
	authed.GET("/wallet/transactions/export", h.Wallet.ExportTransactions)
	authed.GET("/revert/history/:phone", h.Wallet.RevertHistory)

	authed.GET("/selection", h.Party.Selection)
	authed.POST("/selection/parent", h.Party.SelectParent)
	authed.POST("/selection/child", h.Party.SelectChild)
	authed.DELETE("/selection", h.Party.ClearSelection)

	authed.POST("/transfers", h.Mutation.Transfer)
	authed.POST("/reverts", h.Mutation.Revert)

	authed.GET("/fund-requests", h.FundRequest.List)
	authed.POST("/fund-requests", h.Mutation.CreateFundRequest)

	if h.Audit != nil {
		authed.GET("/audit", h.Audit.List)
	}

	master := authed.Group("/master", middleware.RequireRole(store, logger, models.RoleMaster))
	master.GET("/distributors", h.Party.Distributors)
	master.GET("/distributors/phone/:phone", h.Party.DistributorByPhone)
	master.GET("/retailers", h.Party.Retailers)
	master.GET("/retailers/phone/:phone", h.Party.RetailerByPhone)

	distributor := authed.Group("/distributor", middleware.RequireRole(store, logger, models.RoleDistributor))
	distributor.GET("/retailers", h.Party.Retailers)
	distributor.GET("/retailers/phone/:phone", h.Party.RetailerByPhone)
}
