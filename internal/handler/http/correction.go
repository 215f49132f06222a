package http

import (
	"net/http"

	"github.com/KunimitsuMk2/mogikintai/internal/domain/correction"
	"github.com/KunimitsuMk2/mogikintai/internal/handler/http/response"
)

type CorrectionHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{correctionService: correctionService}
}

// List implements CorrectionHandler.
func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	list, err := h.correctionService.ListFor(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, correction.NewCorrectionListResponse(list))
}

// Get implements CorrectionHandler.
func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFromRequest(r)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	id, err := uuidParam(r, "id", correction.ErrCorrectionRequestNotFound)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	req, err := h.correctionService.GetRequest(r.Context(), actor, id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, correction.NewCorrectionResponse(req))
}
