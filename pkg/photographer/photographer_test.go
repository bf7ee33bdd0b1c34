package photographer_test

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/stagehand/pkg/abilities"
	"github.com/odvcencio/stagehand/pkg/artifact"
	"github.com/odvcencio/stagehand/pkg/errors"
	"github.com/odvcencio/stagehand/pkg/events"
	"github.com/odvcencio/stagehand/pkg/photographer"
	"github.com/odvcencio/stagehand/pkg/screenplay"
)

type stubBrowser struct {
	screenshot []byte
	err        error
}

func (s *stubBrowser) Capability() screenplay.Capability { return abilities.CapabilityBrowseTheWeb }

func (s *stubBrowser) NavigateTo(context.Context, string) error { return nil }

func (s *stubBrowser) TakeScreenshot(context.Context) ([]byte, error) {
	return s.screenshot, s.err
}

type countingOutlet struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (o *countingOutlet) SendPicture(ctx context.Context, filename string, data []byte) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return "", o.err
	}
	o.calls++
	return "stored/" + filename, nil
}

func (o *countingOutlet) callCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

func browsingActor(browser *stubBrowser) *screenplay.Actor {
	return screenplay.ActorCalled(screenplay.NewStage(), "Alice").WhoCan(browser)
}

func TestTakePhotoOf(t *testing.T) {
	raw := []byte("png-bytes")
	outlet := &countingOutlet{}
	p := photographer.New(outlet)
	actor := browsingActor(&stubBrowser{screenshot: raw})

	activityID := events.NewCorrelationID()
	capture, err := p.TakePhotoOf(context.Background(), actor, activityID, "pays")
	require.NoError(t, err)

	assert.Equal(t, activityID, capture.ActivityID)
	assert.Equal(t, "pays", capture.Artifact.Name)
	assert.Equal(t, artifact.MediaTypePNG, capture.Artifact.MediaType)
	assert.Equal(t, "stored/"+artifact.ContentAddressedFilename(raw), capture.Reference)

	decoded, err := artifact.Decode(capture.Artifact)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestTakePhotoOf_DeduplicatesIdenticalContent(t *testing.T) {
	outlet := &countingOutlet{}
	p := photographer.New(outlet)
	actor := browsingActor(&stubBrowser{screenshot: []byte("same-bytes")})

	first, err := p.TakePhotoOf(context.Background(), actor, events.NewCorrelationID(), "first")
	require.NoError(t, err)
	second, err := p.TakePhotoOf(context.Background(), actor, events.NewCorrelationID(), "second")
	require.NoError(t, err)

	assert.Equal(t, first.Reference, second.Reference)
	assert.Equal(t, 1, outlet.callCount())
}

func TestTakePhotoOf_ConcurrentCapturesStoreOnce(t *testing.T) {
	outlet := &countingOutlet{}
	p := photographer.New(outlet)
	actor := browsingActor(&stubBrowser{screenshot: []byte("same-bytes")})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := p.TakePhotoOf(context.Background(), actor, events.NewCorrelationID(), "pays")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, outlet.callCount())
}

func TestTakePhotoOf_WithoutBrowsingAbility(t *testing.T) {
	p := photographer.New(&countingOutlet{})
	actor := screenplay.ActorCalled(screenplay.NewStage(), "Bob")

	_, err := p.TakePhotoOf(context.Background(), actor, events.NewCorrelationID(), "pays")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeAbilityNotFound))
}

func TestTakePhotoOf_ScreenshotFailure(t *testing.T) {
	p := photographer.New(&countingOutlet{})
	actor := browsingActor(&stubBrowser{err: stderrors.New("browser crashed")})

	_, err := p.TakePhotoOf(context.Background(), actor, events.NewCorrelationID(), "pays")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactCapture))
	assert.Contains(t, err.Error(), "Alice")
}

func TestTakePhotoOf_OutletFailure(t *testing.T) {
	outlet := &countingOutlet{err: stderrors.New("disk full")}
	p := photographer.New(outlet)
	actor := browsingActor(&stubBrowser{screenshot: []byte("png-bytes")})

	_, err := p.TakePhotoOf(context.Background(), actor, events.NewCorrelationID(), "pays")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeArtifactCapture))
}
