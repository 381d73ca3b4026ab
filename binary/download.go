package binary

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// maxRedirects bounds how many Location hops a single download may follow.
const maxRedirects = 10

// ErrTooManyRedirects is reported when the redirect chain exceeds
// [maxRedirects] hops.
var ErrTooManyRedirects = errors.New("too many redirects")

// DownloadError reports a terminal non-2xx, non-redirect response.
type DownloadError struct {
	Status int
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("received unexpected response when downloading artifact: http%d", e.Status)
}

// download fetches url into destination, streaming the response body straight
// to disk. A partial file left behind by a failed write is removed best
// effort before the error propagates. There is no internal retry; a failed
// download aborts the whole run.
func download(ctx context.Context, url, destination string) (err error) {
	logdetail(fmt.Sprintf("downloading %s to %s", url, destination))

	start := time.Now()
	defer func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			color.Red("     ✘ %s", elapsed)
			return
		}
		color.Green("     ✔ %s", elapsed)
	}()

	resp, err := fetch(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, finish := progress(resp.Body, resp.ContentLength)
	defer finish()

	out, err := os.Create(destination)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", destination, err)
	}

	if _, err := io.Copy(out, data); err != nil {
		out.Close()
		_ = os.Remove(destination)
		return fmt.Errorf("failed to copy data to file %s: %w", destination, err)
	}

	if err := out.Close(); err != nil {
		_ = os.Remove(destination)
		return fmt.Errorf("failed to close file %s: %w", destination, err)
	}

	return nil
}

// client never follows redirects on its own; hop handling lives in fetch so
// that the limit and the error kind stay explicit.
var client = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// fetch issues the GET for target, following 301/302/307/308 responses
// through their Location header for up to maxRedirects hops. The returned
// response is always the final non-redirect one; its body is the caller's
// to close.
func fetch(ctx context.Context, target string) (*http.Response, error) {
	for hops := 0; hops <= maxRedirects; hops++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to download artifact: %w", err)
		}

		switch resp.StatusCode {
		case http.StatusMovedPermanently, http.StatusFound,
			http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
			location := resp.Header.Get("Location")
			resp.Body.Close()

			if location == "" {
				return nil, &DownloadError{Status: resp.StatusCode}
			}

			// the Location value may be relative to the redirecting URL
			next, err := resp.Request.URL.Parse(location)
			if err != nil {
				return nil, fmt.Errorf("invalid redirect location %q: %w", location, err)
			}

			target = next.String()
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, &DownloadError{Status: resp.StatusCode}
		}

		return resp, nil
	}

	return nil, fmt.Errorf("%w: gave up after %d hops", ErrTooManyRedirects, maxRedirects)
}

// progress wraps an io.Reader to display a progress bar when running in a
// terminal. Returns the wrapped reader and a function to finalize the
// progress display. CI logs are not terminals, so pipelines never see the
// escape codes.
func progress(reader io.Reader, size int64) (io.Reader, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return reader, func() {}
	}

	bar := pb.
		New64(size).
		SetTemplate(
			pb.ProgressBarTemplate(
				color.New(color.FgHiBlack).Sprint(
					`   └ {{string . "prefix"}}{{counters . }}` +
						` {{bar . "[" "=" ">" " " "]" }} {{percent . }}` +
						` {{speed . }} {{string . "suffix"}}`,
				),
			),
		).
		SetRefreshRate(time.Second / 60).
		SetMaxWidth(100).
		Start()

	return bar.NewProxyReader(reader), func() { bar.Finish() }
}

func logstep(text string) {
	fmt.Println(
		color.BlueString(" •"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}

func logdetail(text string) {
	fmt.Println(
		color.New(color.FgHiBlack).Sprint("   └"),
		color.New(color.FgHiBlack).Sprint(text),
	)
}
