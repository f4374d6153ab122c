// FilePath: api/resources/api.resource.screenshots.go
package resources

import (
	"net/http"

	"github.com/Basavaraj-fidelis/wfh/internal/engine"
	"github.com/Basavaraj-fidelis/wfh/internal/errors"
	"github.com/gorilla/mux"
	nuts "github.com/vaudience/go-nuts"
)

// ScreenshotHandlers serves stored screenshot images by their opaque
// reference (the relative path recorded on the snapshot row).
type ScreenshotHandlers struct {
	engine *engine.Engine
}

// @Summary Download a screenshot
// @Description Stream the screenshot referenced by a snapshot
// @Tags screenshots
// @Produce image/png
// @Param ref path string true "Screenshot reference"
// @Success 200 {file} file
// @Failure 404 {object} errors.APIError
// @Router /screenshots/{ref} [get]
// @Security BearerAuth
func (h *ScreenshotHandlers) GetScreenshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ref := vars["ref"]
	requestID := nuts.NID("req", 12)

	w.Header().Set("Content-Type", "image/png")
	if err := h.engine.Screenshots.Stream(r.Context(), ref, w); err != nil {
		if apiErr, ok := err.(*errors.APIError); ok && errors.IsNotFound(apiErr) {
			respondWithError(w, apiErr.WithRequestID(requestID))
			return
		}
		nuts.L.Errorf("[ScreenshotHandler] Failed to stream %s: %v", ref, err)
	}
}
