package services

import (
	"context"
	"time"
)

// MockScanner returns a fixed result, for driving the browser without a
// filesystem.
type MockScanner struct {
	Result ScanResult
	Err    error
	Calls  int
}

func NewMockScanner(result ScanResult) *MockScanner {
	return &MockScanner{Result: result}
}

func (scanner *MockScanner) Scan(ctx context.Context, req ScanRequest) (ScanResult, error) {
	scanner.Calls++
	start := time.Now()
	select {
	case <-ctx.Done():
		return ScanResult{}, ctx.Err()
	default:
	}
	if scanner.Err != nil {
		return ScanResult{RootPath: req.RootPath}, scanner.Err
	}
	result := scanner.Result
	if result.RootPath == "" {
		result.RootPath = req.RootPath
	}
	result.Duration = time.Since(start)
	return result, nil
}
