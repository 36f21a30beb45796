// internal/api/handlers.go
package api

import (
	"fmt"
	"net/http"

	apperrors "mergington-activities/internal/common/errors"
	"mergington-activities/internal/common/metrics"
	"mergington-activities/internal/events"
	"mergington-activities/internal/registry"

	"github.com/gin-gonic/gin"
)

const (
	opSignUp     = "signup"
	opUnregister = "unregister"
)

func (s *Server) listActivities(c *gin.Context) {
	c.JSON(http.StatusOK, s.roster.ListActivities())
}

func (s *Server) signUp(c *gin.Context) {
	activityName := c.Param("activity_name")
	email := c.Query("email")

	enrollment, err := s.roster.SignUp(activityName, email)
	if err != nil {
		s.fail(c, opSignUp, activityName, email, err)
		return
	}

	metrics.RegistryOperations.WithLabelValues(opSignUp, metrics.OutcomeOK).Inc()
	metrics.RosterSize.WithLabelValues(activityName).Inc()
	s.announce(c, events.TypeSignUp, enrollment)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Signed up %s for %s", enrollment.Participant, enrollment.Activity),
	})
}

func (s *Server) unregister(c *gin.Context) {
	activityName := c.Param("activity_name")
	email := c.Query("email")

	enrollment, err := s.roster.Unregister(activityName, email)
	if err != nil {
		s.fail(c, opUnregister, activityName, email, err)
		return
	}

	metrics.RegistryOperations.WithLabelValues(opUnregister, metrics.OutcomeOK).Inc()
	metrics.RosterSize.WithLabelValues(activityName).Dec()
	s.announce(c, events.TypeUnregister, enrollment)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Unregistered %s from %s", enrollment.Participant, enrollment.Activity),
	})
}

func (s *Server) fail(c *gin.Context, op, activityName, email string, err error) {
	stdErr := apperrors.FromRegistryError(activityName, email, err)
	metrics.RegistryOperations.WithLabelValues(op, string(stdErr.Code)).Inc()
	s.errors.HandleHTTPError(c, stdErr)
}

// announce publishes a committed change. Delivery failures are already
// logged and counted by the publisher and do not affect the response.
func (s *Server) announce(c *gin.Context, t events.Type, enrollment registry.Enrollment) {
	evt := events.New(t, enrollment)
	if err := s.publisher.Publish(c.Request.Context(), evt); err != nil {
		s.logger.Debug("Roster event partially delivered", map[string]interface{}{
			"eventId": evt.ID,
			"error":   err,
		})
	}
}
