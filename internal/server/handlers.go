package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/wellmeing/internal/codec"
	"github.com/julianstephens/wellmeing/internal/constants"
	"github.com/julianstephens/wellmeing/internal/history"
	"github.com/julianstephens/wellmeing/internal/models"
)

// Largest window a client may ask for, in days.
const maxWindowDays = 366

type profileRequest struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

type speechRequest struct {
	Speech string `json:"speech" binding:"required"`
}

// bodyMap reads the request body as a wire map.
func bodyMap(c *gin.Context) (map[string]any, bool) {
	data, err := c.GetRawData()
	if err != nil || len(data) == 0 {
		RespondError(c, "request body is required", http.StatusBadRequest)
		return nil, false
	}
	raw, err := codec.FromJSON(data)
	if err != nil {
		RespondError(c, "request body must be a JSON object", http.StatusBadRequest)
		return nil, false
	}
	return raw, true
}

// GET /users/:user
func (s *Server) getUser(c *gin.Context) {
	RespondSuccess(c, codec.EncodeUser(trackerFrom(c).Session().Snapshot()))
}

// PUT /users/:user/profile
func (s *Server) putProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	t := trackerFrom(c)
	if err := t.UpdateProfile(c.Request.Context(), req.Name, req.Bio); err != nil {
		RespondFailure(c, err)
		return
	}
	user := t.Session().Snapshot()
	RespondSuccess(c, gin.H{codec.FieldName: user.Name, codec.FieldBio: user.Bio})
}

// PUT /users/:user/habits/:habit
func (s *Server) putHabit(c *gin.Context) {
	raw, ok := bodyMap(c)
	if !ok {
		return
	}
	h, err := codec.DecodeHabitDefinition(c.Param("habit"), raw)
	if err != nil {
		RespondFailure(c, err)
		return
	}
	if err := trackerFrom(c).CreateHabit(c.Request.Context(), h); err != nil {
		RespondFailure(c, err)
		return
	}
	RespondCreated(c, gin.H{codec.FieldName: h.Name, "habit": codec.EncodeHabit(h)})
}

// DELETE /users/:user/habits/:habit
func (s *Server) deleteHabit(c *gin.Context) {
	if err := trackerFrom(c).DeleteHabit(c.Request.Context(), c.Param("habit")); err != nil {
		RespondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /users/:user/habits/:habit/submissions
// The timestamp defaults to now; metrics must cover every metric of the habit.
func (s *Server) postSubmission(c *gin.Context) {
	raw, ok := bodyMap(c)
	if !ok {
		return
	}
	t := trackerFrom(c)

	ts := t.Session().Now()
	if stamp, _ := raw[codec.FieldTimestamp].(string); stamp != "" {
		parsed, err := models.ParseTimestamp(stamp)
		if err != nil {
			RespondError(c, "timestamp must be formatted as "+constants.TimestampFormat, http.StatusBadRequest)
			return
		}
		ts = parsed
	}
	notes, _ := raw[codec.FieldNotes].(string)
	wire, _ := raw[codec.FieldMetrics].(map[string]any)

	saved, err := t.LogSubmission(c.Request.Context(), c.Param("habit"), ts, notes, wire)
	if err != nil {
		RespondFailure(c, err)
		return
	}
	out := codec.EncodeSubmission(saved)
	out[codec.FieldID] = saved.ID
	out[codec.FieldTimestamp] = models.FormatTimestamp(saved.Timestamp)
	RespondCreated(c, out)
}

// DELETE /users/:user/habits/:habit/submissions/:id
func (s *Server) deleteSubmission(c *gin.Context) {
	if err := trackerFrom(c).DeleteSubmission(c.Request.Context(), c.Param("habit"), c.Param("id")); err != nil {
		RespondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /users/:user/window?days=7&habit=Run&habit=Sleep
func (s *Server) getWindow(c *gin.Context) {
	days := constants.WeekWindow
	if v := c.Query("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxWindowDays {
			RespondError(c, "days must be between 1 and "+strconv.Itoa(maxWindowDays), http.StatusBadRequest)
			return
		}
		days = n
	}
	habits := trackerFrom(c).Session().Window(days, c.QueryArray("habit")...)
	RespondSuccess(c, gin.H{"days": days, codec.FieldHabits: codec.EncodeHabits(habits)})
}

// GET /users/:user/charts
func (s *Server) getCharts(c *gin.Context) {
	items := trackerFrom(c).Session().ChartItems()
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{
			"habit":          item.Habit,
			"metric":         item.Metric,
			codec.FieldInput: item.Kind.String(),
		})
	}
	RespondSuccess(c, gin.H{"charts": out})
}

// GET /users/:user/charts/:habit/:metric?week=-1
// week is the offset from the current week and may not be positive.
func (s *Server) getChart(c *gin.Context) {
	offset := 0
	if v := c.Query("week"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n > 0 {
			RespondError(c, "week must be zero or negative", http.StatusBadRequest)
			return
		}
		offset = n
	}
	sess := trackerFrom(c).Session()
	habit, metric := c.Param("habit"), c.Param("metric")
	series, err := sess.AggregateWeek(habit, metric, offset)
	if err != nil {
		RespondFailure(c, err)
		return
	}
	RespondSuccess(c, gin.H{
		"habit":  habit,
		"metric": metric,
		"week":   offset,
		"label":  history.WeekLabel(sess.Now(), offset),
		"days":   history.WeekdayNames,
		"values": series,
		"max":    series.Max(),
	})
}

// POST /users/:user/reports
func (s *Server) postReport(c *gin.Context) {
	if s.assistant == nil {
		RespondError(c, "assistant is not configured", http.StatusServiceUnavailable)
		return
	}
	report, err := trackerFrom(c).RequestReport(c.Request.Context(), s.assistant)
	if err != nil {
		RespondFailure(c, err)
		return
	}
	out := codec.EncodeReport(report)
	out[codec.FieldDate] = codec.ReportKey(report)
	RespondCreated(c, out)
}

// DELETE /users/:user/reports/:date
func (s *Server) deleteReport(c *gin.Context) {
	date, err := models.ParseTimestamp(c.Param("date"))
	if err != nil {
		RespondError(c, "date must be formatted as "+constants.TimestampFormat, http.StatusBadRequest)
		return
	}
	if err := trackerFrom(c).DeleteReport(c.Request.Context(), date); err != nil {
		RespondFailure(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /users/:user/speech
// Returns the proposed actions without applying them.
func (s *Server) postSpeech(c *gin.Context) {
	if s.assistant == nil {
		RespondError(c, "assistant is not configured", http.StatusServiceUnavailable)
		return
	}
	var req speechRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, err.Error(), http.StatusBadRequest)
		return
	}
	actions, err := trackerFrom(c).ProposeActions(c.Request.Context(), s.assistant, req.Speech)
	if err != nil {
		RespondFailure(c, err)
		return
	}
	RespondSuccess(c, gin.H{codec.FieldActions: codec.EncodeActions(actions), "count": actions.Count()})
}

// POST /users/:user/actions
// Applies confirmed actions in the shape returned by the speech route.
func (s *Server) postActions(c *gin.Context) {
	raw, ok := bodyMap(c)
	if !ok {
		return
	}
	t := trackerFrom(c)
	sess := t.Session()
	actions, err := codec.DecodeActions(raw, codec.SchemasFrom(sess.Habits()), sess.Now())
	if err != nil {
		RespondFailure(c, err)
		return
	}
	result, err := t.ApplyActions(c.Request.Context(), actions)
	if err != nil {
		RespondFailure(c, err)
		return
	}
	RespondSuccess(c, gin.H{"created": result.Created, "logged": result.Logged, "count": result.Count()})
}
