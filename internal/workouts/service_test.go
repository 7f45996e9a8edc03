package workouts_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/temirov/errands/internal/httpclient"
	"github.com/temirov/errands/internal/workouts"
)

const (
	testQueryConstant         = "I ran 3 kilometers and did 20 minutes of swimming."
	testAppIDConstant         = "app-id"
	testAppKeyConstant        = "app-key"
	testAppendFailureConstant = "sheet rejected row"
	testExercisesResponse     = `{"exercises":[{"name":"running","duration_min":17.64,"nf_calories":211.6},{"name":"swimming","duration_min":20,"nf_calories":160.45}]}`
)

type stubExerciseSource struct {
	exercises []workouts.Exercise
	queries   []string
}

func (source *stubExerciseSource) Exercises(_ context.Context, query string, _ workouts.Profile) ([]workouts.Exercise, error) {
	source.queries = append(source.queries, query)
	return source.exercises, nil
}

type recordingRowAppender struct {
	objectNames []string
	rows        []map[string]any
	failOn      string
}

func (appender *recordingRowAppender) AppendRow(_ context.Context, objectName string, fields map[string]any) error {
	if fields["exercise"] == appender.failOn {
		return errors.New(testAppendFailureConstant)
	}
	appender.objectNames = append(appender.objectNames, objectName)
	appender.rows = append(appender.rows, fields)
	return nil
}

type fixedClock struct {
	now time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.now
}

func TestServiceLogAppendsRows(testInstance *testing.T) {
	source := &stubExerciseSource{exercises: []workouts.Exercise{
		{Name: "running", DurationMinutes: 17.64, Calories: 211.6},
		{Name: "weight lifting", DurationMinutes: 30, Calories: 120.4},
	}}
	appender := &recordingRowAppender{}
	clock := fixedClock{now: time.Date(2026, time.October, 19, 7, 5, 9, 0, time.UTC)}
	service, serviceError := workouts.NewService(workouts.Dependencies{Exercises: source, Rows: appender, Clock: clock})
	require.NoError(testInstance, serviceError)

	logged, logError := service.Log(context.Background(), "  "+testQueryConstant+" ", workouts.Options{})
	require.NoError(testInstance, logError)

	require.Equal(testInstance, []string{testQueryConstant}, source.queries)
	require.Equal(testInstance, []workouts.LoggedExercise{
		{Exercise: "Running", Duration: 18, Calories: 212},
		{Exercise: "Weight Lifting", Duration: 30, Calories: 120},
	}, logged)
	require.Equal(testInstance, []string{"workout", "workout"}, appender.objectNames)
	require.Equal(testInstance, map[string]any{
		"date":     "19/10/2026",
		"time":     "07:05:09",
		"exercise": "Running",
		"duration": 18,
		"calories": 212,
	}, appender.rows[0])
}

func TestServiceLogContinuesAfterFailedRow(testInstance *testing.T) {
	source := &stubExerciseSource{exercises: []workouts.Exercise{{Name: "running"}, {Name: "swimming"}}}
	appender := &recordingRowAppender{failOn: "Running"}
	service, serviceError := workouts.NewService(workouts.Dependencies{Exercises: source, Rows: appender})
	require.NoError(testInstance, serviceError)

	logged, logError := service.Log(context.Background(), testQueryConstant, workouts.Options{ObjectName: "exercise"})
	require.ErrorContains(testInstance, logError, testAppendFailureConstant)
	require.Len(testInstance, logged, 1)
	require.Equal(testInstance, []string{"exercise"}, appender.objectNames)
}

func TestServiceLogDryRunSkipsSheet(testInstance *testing.T) {
	source := &stubExerciseSource{exercises: []workouts.Exercise{{Name: "cycling", DurationMinutes: 45, Calories: 380}}}
	appender := &recordingRowAppender{}
	service, serviceError := workouts.NewService(workouts.Dependencies{Exercises: source, Rows: appender})
	require.NoError(testInstance, serviceError)

	logged, logError := service.Log(context.Background(), testQueryConstant, workouts.Options{DryRun: true})
	require.NoError(testInstance, logError)
	require.Equal(testInstance, []workouts.LoggedExercise{{Exercise: "Cycling", Duration: 45, Calories: 380}}, logged)
	require.Empty(testInstance, appender.rows)
}

func TestServiceLogRejectsEmptyQuery(testInstance *testing.T) {
	service, serviceError := workouts.NewService(workouts.Dependencies{Exercises: &stubExerciseSource{}, Rows: &recordingRowAppender{}})
	require.NoError(testInstance, serviceError)

	_, logError := service.Log(context.Background(), "   ", workouts.Options{})
	require.ErrorIs(testInstance, logError, workouts.ErrEmptyQuery)
}

func TestNutritionClientSendsProfile(testInstance *testing.T) {
	var receivedHeaders http.Header
	var receivedBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		receivedHeaders = request.Header.Clone()
		_ = json.NewDecoder(request.Body).Decode(&receivedBody)
		responseWriter.Header().Set("Content-Type", "application/json")
		_, _ = responseWriter.Write([]byte(testExercisesResponse))
	}))
	defer server.Close()

	client, clientError := workouts.NewNutritionClient(workouts.NutritionConfiguration{BaseURL: server.URL, AppID: testAppIDConstant, AppKey: testAppKeyConstant}, httpclient.Dependencies{})
	require.NoError(testInstance, clientError)

	exercises, exercisesError := client.Exercises(context.Background(), testQueryConstant, workouts.Profile{Gender: "male", WeightKilograms: 60.2, HeightCentimeters: 163, Age: 30})
	require.NoError(testInstance, exercisesError)

	require.Equal(testInstance, []workouts.Exercise{
		{Name: "running", DurationMinutes: 17.64, Calories: 211.6},
		{Name: "swimming", DurationMinutes: 20, Calories: 160.45},
	}, exercises)
	require.Equal(testInstance, testAppIDConstant, receivedHeaders.Get("x-app-id"))
	require.Equal(testInstance, testAppKeyConstant, receivedHeaders.Get("x-app-key"))
	require.Equal(testInstance, map[string]any{
		"query":     testQueryConstant,
		"gender":    "male",
		"weight_kg": 60.2,
		"height_cm": 163.0,
		"age":       30.0,
	}, receivedBody)
}

func TestNewNutritionClientRequiresCredentials(testInstance *testing.T) {
	_, clientError := workouts.NewNutritionClient(workouts.NutritionConfiguration{AppID: testAppIDConstant}, httpclient.Dependencies{})
	require.ErrorIs(testInstance, clientError, workouts.ErrMissingCredentials)
}
