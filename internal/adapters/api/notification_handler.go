package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"weatherbot.app/pkg/errors"
)

type NotificationResponse struct {
	ChatID int64  `json:"chat_id"`
	City   string `json:"city"`
	Time   string `json:"time"`
}

// getNotification handles GET /api/notifications/:chat_id
func (s *HTTPServerAdapter) getNotification(c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil {
		s.handleError(c, errors.NewValidationError("chat_id must be an integer"))
		return
	}

	schedule, err := s.notificationUseCase.GetSchedule(c.Request.Context(), chatID)
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, NotificationResponse{
		ChatID: schedule.ChatID,
		City:   schedule.City,
		Time:   schedule.Time,
	})
}
