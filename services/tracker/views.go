package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// change describes one mutation for staleness marking and event publishing
type change struct {
	entity   string
	action   string
	entityID uuid.UUID
	tenantID uuid.UUID
	roomIDs  []uuid.UUID
}

// afterMutation marks the touched views stale and publishes a change event.
// Neither step can fail the request that already committed.
func (app *App) afterMutation(ctx context.Context, ch change) {
	if app.views != nil {
		if err := app.views.MarkStale(ctx, ch.tenantID, ch.roomIDs...); err != nil {
			logrus.WithFields(logrus.Fields{
				"tenant_id": ch.tenantID,
				"entity":    ch.entity,
				"action":    ch.action,
			}).WithError(err).Warn("Failed to mark views stale")
		}
	}

	event := ChangeEvent{
		ID:         uuid.New(),
		TenantID:   ch.tenantID,
		Entity:     ch.entity,
		EntityID:   ch.entityID,
		Action:     ch.action,
		OccurredAt: time.Now().UTC(),
	}
	if len(ch.roomIDs) > 0 {
		roomID := ch.roomIDs[0]
		event.RoomID = &roomID
	}
	app.events.Publish(event)
}

// forgetViews drops the version counters of deleted views
func (app *App) forgetViews(ctx context.Context, tenantID *uuid.UUID, roomIDs ...uuid.UUID) {
	if app.views == nil {
		return
	}
	if err := app.views.Forget(ctx, tenantID, roomIDs...); err != nil {
		logrus.WithError(err).Warn("Failed to drop view versions")
	}
}

// view names one rendered representation of a tenant or room
type view struct {
	scope string
	id    uuid.UUID
	room  bool
}

func tenantView(scope string, tenantID uuid.UUID) view {
	return view{scope: scope, id: tenantID}
}

func roomView(roomID uuid.UUID) view {
	return view{scope: "room", id: roomID, room: true}
}

// notModified sets a weak ETag from the view version and a digest of the
// rendered content, and answers 304 when the client already holds it. The
// digest keeps a changed view from matching an old ETag even when the
// version did not move. Without view tracking it does nothing.
func (app *App) notModified(c *gin.Context, v view, content interface{}) bool {
	if app.views == nil {
		return false
	}

	var (
		version string
		err     error
	)
	ctx := c.Request.Context()
	if v.room {
		version, err = app.views.RoomVersion(ctx, v.id)
	} else {
		version, err = app.views.TenantVersion(ctx, v.id)
	}
	if err != nil {
		logrus.WithError(err).Warn("Failed to read view version")
		return false
	}

	digest, err := contentDigest(content)
	if err != nil {
		logrus.WithError(err).Warn("Failed to digest view content")
		return false
	}

	etag := fmt.Sprintf(`W/"%s-%s-%s-%s"`, v.scope, v.id, version, digest)
	c.Header("ETag", etag)

	for _, candidate := range strings.Split(c.GetHeader("If-None-Match"), ",") {
		if strings.TrimSpace(candidate) == etag {
			c.Status(http.StatusNotModified)
			return true
		}
	}
	return false
}

func contentDigest(content interface{}) (string, error) {
	raw, err := json.Marshal(content)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:8]), nil
}
