package handler

import (
	"net/http"

	"atcoder_bingo/internal/app/service"
	"atcoder_bingo/internal/common"

	"github.com/go-chi/chi/v5"
)

type BoardHandler struct {
	boardService *service.BoardService
}

func NewBoardHandler(bs *service.BoardService) *BoardHandler {
	return &BoardHandler{boardService: bs}
}

func (h *BoardHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.getTodayBoard) // GET /api/v1/board?user_id=tourist
}

func (h *BoardHandler) getTodayBoard(w http.ResponseWriter, r *http.Request) {
	// user_id is a free-form handle, not an authenticated identity. A
	// missing or malformed handle still renders the board, just without
	// statuses.
	userID := r.URL.Query().Get("user_id")

	levels, err := h.boardService.TodayBoard(r.Context(), userID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type BoardResponse struct {
		Levels []service.BoardLevel `json:"levels"`
	}
	common.RespondWithJSON(w, http.StatusOK, BoardResponse{Levels: levels})
}
