// internal/events/sinks_test.go
package events

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"mergington-activities/internal/registry"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaSink_KeysByActivity(t *testing.T) {
	w := &fakeWriter{}
	sink := &KafkaSink{writer: w}
	evt := chessSignUp()

	require.NoError(t, sink.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "Chess Club", string(w.msgs[0].Key))

	var decoded Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, evt.ID, decoded.ID)
	assert.Equal(t, TypeSignUp, decoded.Type)
	assert.Equal(t, "signup", string(w.msgs[0].Headers[0].Value))

	require.NoError(t, sink.Close())
	assert.True(t, w.closed)
}

func TestKafkaSink_WriteError(t *testing.T) {
	sink := &KafkaSink{writer: &fakeWriter{err: kafka.LeaderNotAvailable}}
	assert.ErrorIs(t, sink.Publish(context.Background(), chessSignUp()), kafka.LeaderNotAvailable)
}

func TestNewKafkaSink_ConfiguresWriter(t *testing.T) {
	sink := NewKafkaSink([]string{"localhost:9092"}, "activities.roster_changes")
	w, ok := sink.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "activities.roster_changes", w.Topic)
	assert.Equal(t, "kafka", sink.Name())
}

func TestRedisSink_PublishesAndCounts(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	sub := client.Subscribe(ctx, "activities:roster")
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	sink := NewRedisSink(client, "activities:roster")
	evt := chessSignUp()
	require.NoError(t, sink.Publish(ctx, evt))

	select {
	case msg := <-sub.Channel():
		var decoded Event
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &decoded))
		assert.Equal(t, evt.ID, decoded.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("no message received on channel")
	}

	assert.Equal(t, "1", mr.HGet("activities:roster:changes", "Chess Club"))
}

func TestRedisSink_PublishError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.MatchExpectationsInOrder(true)
	mock.Regexp().ExpectPublish("activities:roster", `.*`).SetErr(errors.New("connection refused"))

	err := NewRedisSink(client, "activities:roster").Publish(context.Background(), chessSignUp())

	assert.ErrorContains(t, err, "redis publish")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisSink_CounterError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.Regexp().ExpectPublish("activities:roster", `.*`).SetVal(1)
	mock.ExpectHIncrBy("activities:roster:changes", "Chess Club", 1).SetErr(errors.New("READONLY"))

	err := NewRedisSink(client, "activities:roster").Publish(context.Background(), chessSignUp())

	assert.ErrorContains(t, err, "redis hincrby")
	assert.NoError(t, mock.ExpectationsWereMet())
}

type fakeTopic struct {
	message string
	attrs   map[string]string
	err     error
}

func (f *fakeTopic) Publish(_ context.Context, message string, attrs map[string]string) (string, error) {
	f.message, f.attrs = message, attrs
	return "msg-1", f.err
}

func TestSNSSink_Attributes(t *testing.T) {
	topic := &fakeTopic{}
	evt := New(TypeUnregister, registry.Enrollment{Activity: "Chess Club", Participant: "michael@mergington.edu"})

	require.NoError(t, NewSNSSink(topic).Publish(context.Background(), evt))
	assert.Equal(t, map[string]string{"event_type": "unregister", "activity": "Chess Club"}, topic.attrs)
	assert.Contains(t, topic.message, `"participant":"michael@mergington.edu"`)
}

type fakeMailer struct {
	to, subject, body string
	calls             int
}

func (f *fakeMailer) SendText(_ context.Context, to, subject, body string) (string, error) {
	f.calls++
	f.to, f.subject, f.body = to, subject, body
	return "id", nil
}

func TestEmailSink_SendsConfirmation(t *testing.T) {
	m := &fakeMailer{}
	require.NoError(t, NewEmailSink(m).Publish(context.Background(), chessSignUp()))

	assert.Equal(t, "newstudent@mergington.edu", m.to)
	assert.Equal(t, "Signed up for Chess Club", m.subject)

	evt := New(TypeUnregister, registry.Enrollment{Activity: "Art Club", Participant: "amelia@mergington.edu"})
	require.NoError(t, NewEmailSink(m).Publish(context.Background(), evt))
	assert.Equal(t, "Unregistered from Art Club", m.subject)
}

func TestEmailSink_SkipsNonAddresses(t *testing.T) {
	m := &fakeMailer{}
	evt := New(TypeSignUp, registry.Enrollment{Activity: "Chess Club", Participant: "student-42"})

	require.NoError(t, NewEmailSink(m).Publish(context.Background(), evt))
	assert.Zero(t, m.calls)
}

func TestJournalSink_Insert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	evt := chessSignUp()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_events")).
		WithArgs(evt.ID, "signup", "Chess Club", "newstudent@mergington.edu", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewJournalSink(db).Publish(context.Background(), evt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJournalSink_InsertError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO roster_events")).WillReturnError(errors.New("relation does not exist"))

	err = NewJournalSink(db).Publish(context.Background(), chessSignUp())
	assert.ErrorContains(t, err, "insert roster event")
}

func TestJournalSink_EnsureSchemaAndHistory(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS roster_events")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	at := time.Date(2026, 9, 1, 15, 30, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "event_type", "activity", "participant", "occurred_at"}).
		AddRow("e1", "signup", "Chess Club", "a@mergington.edu", at).
		AddRow("e2", "unregister", "Chess Club", "a@mergington.edu", at.Add(time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM roster_events")).WithArgs("Chess Club").WillReturnRows(rows)

	sink := NewJournalSink(db)
	require.NoError(t, sink.EnsureSchema(context.Background()))

	history, err := sink.History(context.Background(), "Chess Club")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, TypeSignUp, history[0].Type)
	assert.Equal(t, TypeUnregister, history[1].Type)
	assert.Equal(t, at, history[0].OccurredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
