package acquisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterceptor_CapturesDownloadAnchorAndSuppressesDefault(t *testing.T) {
	doc := newFakeDocument()
	interceptor := installInterceptor(doc)
	defer interceptor.Release()

	ev := doc.fireClick(blobAnchor("blob:abc"))
	assert.True(t, ev.prevented)

	select {
	case ref := <-interceptor.refs:
		assert.Equal(t, "blob:abc", ref)
	default:
		t.Fatal("expected a captured reference")
	}
}

func TestInterceptor_MatchesAnchorsByDownloadAttribute(t *testing.T) {
	doc := newFakeDocument()
	interceptor := installInterceptor(doc)
	defer interceptor.Release()

	// Not a blob URL, but carries the download attribute.
	anchor := &fakeElement{tag: "a", attrs: map[string]string{
		"href":     "https://example.com/archive.zip",
		"download": "archive.zip",
	}}
	ev := doc.fireClick(anchor)
	assert.True(t, ev.prevented)
	assert.Equal(t, "https://example.com/archive.zip", <-interceptor.refs)
}

func TestInterceptor_IgnoresUnrelatedClicks(t *testing.T) {
	doc := newFakeDocument()
	interceptor := installInterceptor(doc)
	defer interceptor.Release()

	// A plain navigation anchor and a non-anchor element pass through.
	for _, target := range []*fakeElement{
		{tag: "a", attrs: map[string]string{"href": "https://example.com/docs"}},
		{tag: "button", text: "Download"},
	} {
		ev := doc.fireClick(target)
		assert.False(t, ev.prevented)
	}

	select {
	case ref := <-interceptor.refs:
		t.Fatalf("unexpected captured reference %q", ref)
	default:
	}
}

func TestInterceptor_LateClicksAfterCaptureAreDropped(t *testing.T) {
	doc := newFakeDocument()
	interceptor := installInterceptor(doc)
	defer interceptor.Release()

	doc.fireClick(blobAnchor("blob:first"))
	doc.fireClick(blobAnchor("blob:second"))

	assert.Equal(t, "blob:first", <-interceptor.refs)
	select {
	case ref := <-interceptor.refs:
		t.Fatalf("late click must be dropped, got %q", ref)
	default:
	}
}

func TestInterceptor_ReleaseIsIdempotent(t *testing.T) {
	doc := newFakeDocument()
	interceptor := installInterceptor(doc)
	require.Equal(t, 1, doc.captureCount())

	interceptor.Release()
	interceptor.Release()
	assert.Zero(t, doc.captureCount())

	ev := doc.fireClick(blobAnchor("blob:late"))
	assert.False(t, ev.prevented)
}
