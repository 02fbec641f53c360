package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-nutrition/internal/core/domain"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

type failingNotifier struct{ err error }

func (f failingNotifier) Notify(ctx context.Context, n domain.Notification) error { return f.err }

type countingNotifier struct{ calls int }

func (c *countingNotifier) Notify(ctx context.Context, n domain.Notification) error {
	c.calls++
	return nil
}

func testNotification() domain.Notification {
	return domain.Notification{
		Kind:     domain.NotificationReminder,
		UserID:   "u1",
		Title:    "Time to log your lunch",
		Messages: []string{"Increase your Protein intake"},
	}
}

func TestSNSNotifier(t *testing.T) {
	ctx := context.Background()

	t.Run("Success: publishes with user attributes", func(t *testing.T) {
		pub := new(MockPublisher)
		pub.On("Publish", ctx, mock.MatchedBy(func(in *sns.PublishInput) bool {
			attr, ok := in.MessageAttributes["user_id"]
			return ok &&
				aws.ToString(in.TopicArn) == "arn:aws:sns:eu-west-1:1:reminders" &&
				aws.ToString(attr.StringValue) == "u1" &&
				aws.ToString(in.MessageAttributes["kind"].StringValue) == "reminder"
		})).Return(&sns.PublishOutput{MessageId: aws.String("m1")}, nil)

		err := NewSNSNotifier(pub, "arn:aws:sns:eu-west-1:1:reminders").Notify(ctx, testNotification())

		require.NoError(t, err)
		pub.AssertExpectations(t)
	})

	t.Run("Fail: publish error is wrapped", func(t *testing.T) {
		pub := new(MockPublisher)
		boom := errors.New("throttled")
		pub.On("Publish", ctx, mock.Anything).Return(nil, boom)

		err := NewSNSNotifier(pub, "arn").Notify(ctx, testNotification())

		assert.ErrorIs(t, err, boom)
	})
}

func TestMultiNotifier(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("sink down")
	counter := &countingNotifier{}

	err := MultiNotifier{failingNotifier{err: boom}, counter, NewLogNotifier()}.Notify(ctx, testNotification())

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, counter.calls, "a failing sink must not stop the others")
	assert.NoError(t, MultiNotifier{}.Notify(ctx, testNotification()))
}
