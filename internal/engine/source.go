package engine

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/shaiso/Iguana/internal/domain"
)

// maxRemoteSize — предел размера workflow, загружаемого по URL.
const maxRemoteSize = 4 << 20

// IsURL проверяет, задан ли источник workflow как http(s) URL.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// ReadSource читает описание workflow из файла или по URL.
func ReadSource(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	if IsURL(source) {
		return readURL(ctx, client, source)
	}

	info, err := os.Stat(source)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s", ErrNoWorkflow, source)
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", source, err)
	}
	return data, nil
}

// readURL скачивает описание workflow.
func readURL(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoWorkflow, url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNoWorkflow, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: status %d", ErrNoWorkflow, url, resp.StatusCode)
	}

	// Лишний байт отличает документ ровно в предел от обрезанного
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxRemoteSize+1))
	if err != nil {
		return nil, fmt.Errorf("read workflow %s: %w", url, err)
	}
	if len(data) > maxRemoteSize {
		return nil, fmt.Errorf("%w: %s: workflow too large (limit %d bytes)", ErrNoWorkflow, url, maxRemoteSize)
	}
	return data, nil
}

// Load читает, парсит и валидирует workflow.
func Load(ctx context.Context, client *http.Client, source string) (*domain.Workflow, error) {
	data, err := ReadSource(ctx, client, source)
	if err != nil {
		return nil, err
	}

	wf, err := Parse(data)
	if err != nil {
		return nil, err
	}

	if err := Validate(wf); err != nil {
		return nil, err
	}

	return wf, nil
}
