package main

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pavitra93/hotel-energy-tracker/shared/store"
	"github.com/pavitra93/hotel-energy-tracker/shared/utils"
)

// respondStoreError maps a store failure onto an HTTP response. notFound is
// the message used for a missing record, e.g. "Room not found".
func respondStoreError(c *gin.Context, err error, notFound string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.NotFoundResponse(c, notFound)
	case errors.Is(err, store.ErrConflict):
		utils.ConflictResponse(c, conflictMessage(err))
	case errors.Is(err, store.ErrInvalidReference):
		utils.ValidationErrorResponse(c, map[string]string{"room_id": "Room does not exist in this tenant"})
	case errors.Is(err, store.ErrNothingToCopy):
		utils.BadRequestResponse(c, "Source room has no devices to copy")
	default:
		logrus.WithError(err).WithField("path", c.FullPath()).Error("Data store request failed")
		utils.InternalServerErrorResponse(c, "Failed to process request")
	}
}

// conflictMessage keeps the store's "name already in use" detail for the user
func conflictMessage(err error) string {
	if detail, ok := strings.CutPrefix(err.Error(), store.ErrConflict.Error()+": "); ok && detail != "" {
		return detail
	}
	return "Record already exists"
}

// paramID parses a UUID path parameter, answering 400 when it is malformed
func paramID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
