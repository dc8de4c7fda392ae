package http

import (
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/network"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
)

type NetworkHandler interface {
	MyIP(w http.ResponseWriter, r *http.Request)
}

type networkHandlerImpl struct {
	networkService network.Service
}

func NewNetworkHandler(networkService network.Service) NetworkHandler {
	return &networkHandlerImpl{
		networkService: networkService,
	}
}

// MyIP reports the resolved client address and whether it would be admitted.
func (h *networkHandlerImpl) MyIP(w http.ResponseWriter, r *http.Request) {
	result, err := h.networkService.Classify(r.Context(), middleware.ClientIPFromContext(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
