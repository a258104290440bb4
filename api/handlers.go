package api

import (
	"github.com/rpupo63/essay-board-backend/config"
	"github.com/rpupo63/essay-board-backend/database"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(database database.Database, r router) *routeHandlers {
	maxPageLimit := config.GetInt(r.config, "MAX_PAGE_LIMIT", defaultMaxPageLimit)
	if maxPageLimit < 1 {
		maxPageLimit = defaultMaxPageLimit
	}

	return &routeHandlers{
		essayHandler:  newEssayHandler(database.EssayRepo(), maxPageLimit),
		healthHandler: newHealthHandler(database.EssayRepo(), r.startupTime),
	}
}
