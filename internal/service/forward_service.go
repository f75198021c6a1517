package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/iplanding-next/internal/config"
	"github.com/iplanding-next/internal/logger"
	"github.com/iplanding-next/internal/models"
)

// ErrForwardUnavailable 转发目标不可用
var ErrForwardUnavailable = errors.New("forward target unavailable")

// ForwardService 外部转发服务
type ForwardService struct {
	cfg        config.ForwardConfig
	httpClient *http.Client
}

// NewForwardService 创建外部转发服务
func NewForwardService(cfg config.ForwardConfig) *ForwardService {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ForwardService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forward 将表单负载转发到外部接口
// 约定：不返回错误，失败时返回带错误描述的结构化结果，调用方原样透出。
func (s *ForwardService) Forward(ctx context.Context, payload models.JSON) models.JSON {
	if s == nil {
		return models.JSON{"error": "forward service not configured"}
	}

	body, status, err := s.post(ctx, payload)
	if err != nil {
		if isTimeout(err) {
			logger.Warnw("forward_timeout", "target", s.cfg.APIURL)
			return models.JSON{"error": "External API request timed out", "timeout": true}
		}
		logger.Warnw("forward_connection_failed", "target", s.cfg.APIURL, "error", err)
		return models.JSON{"error": "Failed to connect to external API", "connection_error": true}
	}
	if status != http.StatusOK {
		logger.Warnw("forward_unexpected_status", "target", s.cfg.APIURL, "status", status)
		return models.JSON{
			"error":       fmt.Sprintf("External API returned status %d", status),
			"status_code": status,
		}
	}

	var decoded models.JSON
	if err := json.Unmarshal(body, &decoded); err != nil {
		logger.Warnw("forward_decode_failed", "target", s.cfg.APIURL, "error", err)
		return models.JSON{"error": "External API returned invalid response", "request_error": true}
	}
	return decoded
}

// Relay 透传任意负载到外部接口
// 与 Forward 不同，失败以错误返回，由调用方决定响应语义。
func (s *ForwardService) Relay(ctx context.Context, payload models.JSON) (models.JSON, error) {
	if s == nil {
		return nil, ErrForwardUnavailable
	}

	body, status, err := s.post(ctx, payload)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: request timed out", ErrForwardUnavailable)
		}
		return nil, fmt.Errorf("%w: %v", ErrForwardUnavailable, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrForwardUnavailable, status)
	}

	var decoded models.JSON
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: invalid response body", ErrForwardUnavailable)
	}
	return decoded, nil
}

// Ping 健康检查探测
func (s *ForwardService) Ping(ctx context.Context) error {
	if s == nil {
		return ErrForwardUnavailable
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, s.targetURL(), nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (s *ForwardService) post(ctx context.Context, payload models.JSON) ([]byte, int, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.targetURL(), bytes.NewReader(encoded))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, resp.StatusCode, err
	}
	return buf.Bytes(), resp.StatusCode, nil
}

func (s *ForwardService) targetURL() string {
	url := strings.TrimSpace(s.cfg.APIURL)
	if url == "" {
		url = "https://httpbin.org/post"
	}
	return url
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
