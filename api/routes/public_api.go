package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"atlas/api/handlers"
	"atlas/api/middleware"
	"atlas/services"
)

// Deps is the shared infrastructure the services are built from. Cache and
// Events may be nil; both degrade to no-ops.
type Deps struct {
	DB     *gorm.DB
	Cache  *services.Cache
	Events *services.EventPublisher
}

// Services bundles everything the route table needs.
type Services struct {
	Users    *services.UserService
	Pairing  *services.PairingService
	Presence *services.PresenceService
	Messages *services.MessageService
	Pokes    *services.PokeService
	Memories *services.MemoryService
	Calendar *services.CalendarService
	Gacha    *services.GachaService
	Sync     *services.SyncService
}

// Setup wires every route. Registration, friend-code validation and metrics
// are public; everything else sits behind bearer auth.
func Setup(router *gin.Engine, svc *Services) {
	router.POST("/auth/register", handlers.Register(svc.Users, svc.Pairing))
	router.GET("/auth/validate/:code", handlers.Validate(svc.Users))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := router.Group("/")
	authed.Use(middleware.Auth(svc.Users))
	{
		authed.POST("auth/link-partner", handlers.LinkPartner(svc.Pairing))
		authed.POST("auth/unlink-partner", handlers.UnlinkPartner(svc.Pairing))

		authed.POST("presence", handlers.UpdatePresence(svc.Presence))
		authed.GET("presence/me", handlers.MyPresence(svc.Presence))
		authed.GET("presence/partner", handlers.PartnerPresence(svc.Pairing, svc.Presence))

		authed.POST("messages", handlers.SendMessage(svc.Pairing, svc.Messages))
		authed.GET("messages", handlers.ListMessages(svc.Pairing, svc.Messages))
		authed.POST("messages/read", handlers.MarkMessagesRead(svc.Messages))
		authed.GET("messages/unread-count", handlers.UnreadCount(svc.Messages))

		authed.POST("pokes", handlers.SendPoke(svc.Pairing, svc.Pokes))
		authed.GET("pokes", handlers.ListPokes(svc.Pokes))
		authed.GET("pokes/sent", handlers.ListSentPokes(svc.Pokes))

		authed.POST("memories", handlers.CreateMemory(svc.Pairing, svc.Memories))
		authed.GET("memories", handlers.ListMemories(svc.Pairing, svc.Memories))
		authed.GET("memories/countdowns", handlers.ListCountdowns(svc.Pairing, svc.Memories))
		authed.DELETE("memories/:id", handlers.DeleteMemory(svc.Memories))

		authed.POST("calendar", handlers.CreateEvent(svc.Pairing, svc.Calendar))
		authed.GET("calendar", handlers.ListEvents(svc.Pairing, svc.Calendar))
		authed.PUT("calendar/:id", handlers.UpdateEvent(svc.Calendar))
		authed.DELETE("calendar/:id", handlers.DeleteEvent(svc.Calendar))

		authed.POST("gacha-stats", handlers.UploadGachaStats(svc.Gacha))
		authed.GET("gacha-stats", handlers.MyGachaStats(svc.Gacha))
		authed.GET("gacha-stats/partner", handlers.PartnerGachaStats(svc.Pairing, svc.Gacha))
		authed.GET("gacha-stats/partner/:game", handlers.PartnerGachaStatsForGame(svc.Pairing, svc.Gacha))

		authed.GET("sync/poll", handlers.Poll(svc.Sync))
		authed.GET("sync/state", handlers.State(svc.Sync))
	}
}

// NewServices builds the service bundle from shared infrastructure.
func NewServices(deps Deps) *Services {
	users := services.NewUserService(deps.DB)
	pairing := services.NewPairingService(deps.DB)
	presence := services.NewPresenceService(deps.DB, deps.Cache)
	messages := services.NewMessageService(deps.DB, deps.Cache, deps.Events)
	pokes := services.NewPokeService(deps.DB, deps.Events)
	memories := services.NewMemoryService(deps.DB, deps.Events)
	calendar := services.NewCalendarService(deps.DB, deps.Events)
	gacha := services.NewGachaService(deps.DB)
	sync := services.NewSyncService(pairing, presence, messages, pokes, memories, calendar)

	return &Services{
		Users:    users,
		Pairing:  pairing,
		Presence: presence,
		Messages: messages,
		Pokes:    pokes,
		Memories: memories,
		Calendar: calendar,
		Gacha:    gacha,
		Sync:     sync,
	}
}
