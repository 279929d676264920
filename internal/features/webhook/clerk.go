package webhook

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/edumart/server-go/internal/features/user"
	"github.com/edumart/server-go/pkg/response"
)

type clerkUserData struct {
	ID                    string `json:"id"`
	FirstName             string `json:"first_name"`
	LastName              string `json:"last_name"`
	Username              string `json:"username"`
	ImageURL              string `json:"image_url"`
	PrimaryEmailAddressID string `json:"primary_email_address_id"`
	EmailAddresses        []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
	} `json:"email_addresses"`
}

func (d clerkUserData) email() string {
	for _, addr := range d.EmailAddresses {
		if addr.ID == d.PrimaryEmailAddressID {
			return addr.EmailAddress
		}
	}
	if len(d.EmailAddresses) > 0 {
		return d.EmailAddresses[0].EmailAddress
	}
	return ""
}

// fullName joins first and last name, falling back to the username and then
// to a placeholder so a synced user never ends up nameless.
func (d clerkUserData) fullName() string {
	if name := strings.TrimSpace(d.FirstName + " " + d.LastName); name != "" {
		return name
	}
	if d.Username != "" {
		return d.Username
	}
	return "New User"
}

// Clerk handles identity provider deliveries, keeping the local user mirror
// in sync. The raw body is verified against the svix signature headers
// before anything is parsed or written.
func (h *Handler) Clerk(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "failed to read request body", err)
		return
	}

	if err := h.clerkVerifier.Verify(payload, c.Request.Header); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid signature", err)
		return
	}

	var event struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(payload, &event); err != nil {
		response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid event payload", err)
		return
	}

	record := Event{
		Provider:  "clerk",
		EventType: event.Type,
		Payload:   payload,
	}

	switch event.Type {
	case "user.created", "user.updated":
		var data clerkUserData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
			return
		}

		if err := user.Upsert(h.db, user.User{
			ID:       data.ID,
			Email:    data.email(),
			Name:     data.fullName(),
			ImageURL: data.ImageURL,
		}); err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to sync user", err)
			return
		}
		record.Processed = true

	case "user.deleted":
		var data struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data, &data); err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusBadRequest, "invalid user payload", err)
			return
		}

		if err := user.Delete(h.db, data.ID); err != nil {
			response.ErrorWithLog(h.logger, c, http.StatusInternalServerError, "failed to delete user", err)
			return
		}
		record.Processed = true
	}

	h.recordAndAck(c, record)
}
