package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/osvaldn/indexer-gateway/internal/state"
)

// TiersHandler exposes the live tier catalog so operators can verify what
// the proxy is actually enforcing after a hot reload.
type TiersHandler struct {
	state *state.State
}

func NewTiersHandler(st *state.State) *TiersHandler {
	return &TiersHandler{state: st}
}

func (h *TiersHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.state.Tiers())
}
