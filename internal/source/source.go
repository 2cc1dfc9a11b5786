// Package source fetches the bytes of a GIF from a file, stdin or an
// http(s) URL.
package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gitgub.com/cam-per/gifanim/gif"
)

// Stdin is the name that selects standard input.
const Stdin = "-"

var Client = http.DefaultClient

// Open returns a reader for name. Any failure is a *gif.SourceError.
func Open(ctx context.Context, name string) (io.ReadCloser, error) {
	switch {
	case name == Stdin:
		return io.NopCloser(os.Stdin), nil
	case strings.HasPrefix(name, "http://"), strings.HasPrefix(name, "https://"):
		return openURL(ctx, name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, &gif.SourceError{Name: name, Err: err}
	}
	return f, nil
}

func openURL(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &gif.SourceError{Name: url, Err: err}
	}
	resp, err := Client.Do(req)
	if err != nil {
		return nil, &gif.SourceError{Name: url, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &gif.SourceError{Name: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return resp.Body, nil
}

// ReadAll opens name and reads it to the end.
func ReadAll(ctx context.Context, name string) ([]byte, error) {
	r, err := Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &gif.SourceError{Name: name, Err: err}
	}
	return data, nil
}

// Decode fetches name and decodes it.
func Decode(ctx context.Context, name string, opts ...gif.Option) (*gif.Animation, error) {
	data, err := ReadAll(ctx, name)
	if err != nil {
		return nil, err
	}
	return gif.Decode(ctx, data, opts...)
}
