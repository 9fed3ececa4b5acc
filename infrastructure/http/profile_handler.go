package http

import (
	"fmt"
	"io"
	"net/http"

	"givelink/auth"
	"givelink/errors"
	"givelink/services"

	"github.com/gin-gonic/gin"
)

// maxImageBytes bounds profile picture uploads.
const maxImageBytes = 5 << 20

type ProfileHandler struct {
	profiles services.IProfileService
}

func NewProfileHandler(profileService services.IProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profileService}
}

type profileRequest struct {
	Name     string   `json:"name"`
	Location string   `json:"location"`
	Bio      string   `json:"bio"`
	Causes   []string `json:"causes"`
}

func (r profileRequest) toForm() services.ProfileForm {
	return services.ProfileForm{
		Name:     r.Name,
		Location: r.Location,
		Bio:      r.Bio,
		Causes:   r.Causes,
	}
}

// Setup completes a fresh profile. Repeated calls are rejected, later
// changes must go through Edit.
func (h *ProfileHandler) Setup(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	profile, err := h.profiles.Setup(auth.MustUserID(c), req.toForm())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toProfileView(profile)})
}

func (h *ProfileHandler) Edit(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errors.ErrValidation, err))
		return
	}

	profile, err := h.profiles.Edit(auth.MustUserID(c), req.toForm())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toProfileView(profile)})
}

// UploadImage accepts a multipart upload under the "image" field. The bytes
// are sniffed server-side, the declared content type is ignored.
func (h *ProfileHandler) UploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		writeError(c, fmt.Errorf("%w: missing image field", errors.ErrValidation))
		return
	}
	if fileHeader.Size > maxImageBytes {
		writeError(c, fmt.Errorf("%w: image exceeds %d bytes", errors.ErrValidation, maxImageBytes))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		writeError(c, err)
		return
	}

	profile, err := h.profiles.SaveImage(auth.MustUserID(c), data)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toProfileView(profile)})
}
