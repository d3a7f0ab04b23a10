package health

import (
	"net/http"

	"github.com/ferdiebergado/gopherkit/http/response"
)

const Path = "/health"

type Status struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

type Handler struct {
	version string
}

func NewHandler(version string) *Handler {
	return &Handler{version: version}
}

// Check reports that the server is up along with the running API version.
func (h *Handler) Check(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, &Status{Status: "OK", Version: h.version})
}
