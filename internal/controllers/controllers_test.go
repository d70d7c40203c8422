package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fsdevblog/slugreg/internal/config"
	"github.com/fsdevblog/slugreg/internal/controllers/middlewares"
	"github.com/fsdevblog/slugreg/internal/db"
	"github.com/fsdevblog/slugreg/internal/services"
	"github.com/fsdevblog/slugreg/internal/tokens"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"
)

const (
	testOperatorAddress = "operator-address"
	testOperatorKey     = "test-operator-key"
	testJWTSecret       = "test-secret"
)

type ControllersSuite struct {
	suite.Suite
	router   *gin.Engine
	services *services.Services
	config   *config.Config
}

func (s *ControllersSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	srv, err := services.Factory(
		context.Background(),
		db.NewMemStorage(),
		services.ServiceTypeInMemory,
		services.Params{
			OperatorAddress: testOperatorAddress,
			FeeShareBips:    5_000,
		},
		logger,
	)
	if err != nil {
		s.T().Fatalf("failed to build services: %v", err)
	}

	appConf := config.Config{
		ServerAddress:   ":80",
		BaseURL:         &url.URL{Scheme: "http", Host: "test.com:8080"},
		OperatorAddress: testOperatorAddress,
		OperatorKey:     testOperatorKey,
		JWTSecret:       testJWTSecret,
		Logger:          logger,
	}

	s.services = srv
	s.config = &appConf
	s.router = SetupRouter(srv, &appConf, logger)
}

func (s *ControllersSuite) TestMint_random() {
	res := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/mint",
		Body:   strings.NewReader(`{"url": "https://test.com/page"}`),
		Wallet: "alice",
	})
	defer res.Body.Close()

	s.Require().Equal(http.StatusCreated, res.StatusCode)

	var body mintResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))

	s.Len(body.Slug, 8)
	s.Equal(uint64(1), body.SequenceID)
	s.False(body.IsCustom)
	s.Zero(body.Cost)
	s.Zero(body.Refund)
	s.Equal(fmt.Sprintf("%s/%s", s.config.BaseURL.String(), body.Slug), body.ShortURL)
}

func (s *ControllersSuite) TestMint_custom() {
	cost := services.MicroUnitsPerUnit / 10 // тариф для 4 символов

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "paid enough",
			body:       fmt.Sprintf(`{"url": "https://test.com", "slug": "佐abc", "payment": %d}`, cost),
			wantStatus: http.StatusCreated,
		},
		{
			name:       "underpaid",
			body:       `{"url": "https://test.com", "slug": "cheap", "payment": 1}`,
			wantStatus: http.StatusPaymentRequired,
		},
		{
			name:       "duplicate slug",
			body:       fmt.Sprintf(`{"url": "https://test.com/other", "slug": "佐abc", "payment": %d}`, cost),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "empty url",
			body:       `{"url": ""}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "malformed json",
			body:       `{"url": `,
			wantStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method: http.MethodPost,
				URL:    "/api/mint",
				Body:   strings.NewReader(tt.body),
				Wallet: "alice",
			})
			defer res.Body.Close()
			s.Equal(tt.wantStatus, res.StatusCode)
		})
	}
}

func (s *ControllersSuite) TestMint_refundAndReferrer() {
	cost := services.MicroUnitsPerUnit / 10 // тариф для 4 символов
	payment := cost + 12_345

	res := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/mint",
		Body: fmt.Sprintf(
			`{"url": "https://test.com", "slug": "abcd", "referrer": "bob", "payment": %d}`,
			payment,
		),
		Wallet: "alice",
	})
	defer res.Body.Close()

	s.Require().Equal(http.StatusCreated, res.StatusCode)

	var body mintResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal(cost, body.Cost)
	s.Equal(uint64(12_345), body.Refund)

	// Реферер получил половину стоимости (5000 бипсов).
	balanceRes := s.makeRequest(requestFields{
		Method: http.MethodGet,
		URL:    "/api/balance",
		Wallet: "bob",
	})
	defer balanceRes.Body.Close()

	s.Require().Equal(http.StatusOK, balanceRes.StatusCode)

	var balance struct {
		Address string `json:"address"`
		Amount  uint64 `json:"amount"`
	}
	s.Require().NoError(json.NewDecoder(balanceRes.Body).Decode(&balance))
	s.Equal("bob", balance.Address)
	s.Equal(cost/2, balance.Amount)
}

func (s *ControllersSuite) TestRedirect() {
	slug := s.mintRandom("alice", "https://test.com/target")

	tests := []struct {
		name       string
		requestURI string
		wantStatus int
	}{
		{name: "known slug", requestURI: "/" + slug, wantStatus: http.StatusTemporaryRedirect},
		{name: "unknown slug", requestURI: "/zzzzzzz1", wantStatus: http.StatusNotFound},
		{name: "root page", requestURI: "/", wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method: http.MethodGet,
				URL:    tt.requestURI,
			})
			defer res.Body.Close()

			s.Equal(tt.wantStatus, res.StatusCode)
			if tt.wantStatus == http.StatusTemporaryRedirect {
				s.Equal("https://test.com/target", res.Header.Get("Location"))
			} else {
				s.Empty(res.Header.Get("Location"))
			}
		})
	}
}

func (s *ControllersSuite) TestSlugLookups() {
	slug := s.mintRandom("alice", "https://test.com/lookup")

	urlRes := s.makeRequest(requestFields{
		Method: http.MethodGet,
		URL:    "/api/slugs/" + slug,
	})
	defer urlRes.Body.Close()

	s.Require().Equal(http.StatusOK, urlRes.StatusCode)

	var urlBody struct {
		Slug string `json:"slug"`
		URL  string `json:"url"`
	}
	s.Require().NoError(json.NewDecoder(urlRes.Body).Decode(&urlBody))
	s.Equal(slug, urlBody.Slug)
	s.Equal("https://test.com/lookup", urlBody.URL)

	idRes := s.makeRequest(requestFields{
		Method: http.MethodGet,
		URL:    "/api/slugs/" + slug + "/id",
	})
	defer idRes.Body.Close()

	s.Require().Equal(http.StatusOK, idRes.StatusCode)

	var idBody struct {
		SequenceID uint64 `json:"sequenceID"`
	}
	s.Require().NoError(json.NewDecoder(idRes.Body).Decode(&idBody))
	s.Equal(uint64(1), idBody.SequenceID)
}

func (s *ControllersSuite) TestMetadata() {
	s.mintRandom("alice", "https://test.com/meta")

	tests := []struct {
		name       string
		uri        string
		wantStatus int
	}{
		{name: "known id", uri: "/api/records/1/metadata", wantStatus: http.StatusOK},
		{name: "unknown id", uri: "/api/records/99/metadata", wantStatus: http.StatusNotFound},
		{name: "zero id", uri: "/api/records/0/metadata", wantStatus: http.StatusBadRequest},
		{name: "garbage id", uri: "/api/records/abc/metadata", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{Method: http.MethodGet, URL: tt.uri})
			defer res.Body.Close()

			s.Equal(tt.wantStatus, res.StatusCode)
			if tt.wantStatus == http.StatusOK {
				var body struct {
					Metadata string `json:"metadata"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.True(strings.HasPrefix(body.Metadata, "data:application/json;base64,"))
			}
		})
	}
}

func (s *ControllersSuite) TestCost() {
	tests := []struct {
		name       string
		uri        string
		wantStatus int
		wantCost   uint64
	}{
		{name: "one char", uri: "/api/cost/1", wantStatus: http.StatusOK, wantCost: services.MicroUnitsPerUnit},
		{name: "clamped length", uri: "/api/cost/20", wantStatus: http.StatusOK, wantCost: services.MicroUnitsPerUnit / 100},
		{name: "zero", uri: "/api/cost/0", wantStatus: http.StatusOK, wantCost: 0},
		{name: "garbage", uri: "/api/cost/abc", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{Method: http.MethodGet, URL: tt.uri})
			defer res.Body.Close()

			s.Equal(tt.wantStatus, res.StatusCode)
			if tt.wantStatus == http.StatusOK {
				var body struct {
					Cost uint64 `json:"cost"`
				}
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(tt.wantCost, body.Cost)
			}
		})
	}
}

func (s *ControllersSuite) TestEditURL() {
	slug := s.mintRandom("alice", "https://test.com/before")

	tests := []struct {
		name       string
		wallet     string
		uri        string
		body       string
		wantStatus int
	}{
		{
			name:       "owner",
			wallet:     "alice",
			uri:        "/api/records/1/url",
			body:       `{"url": "https://test.com/after"}`,
			wantStatus: http.StatusNoContent,
		},
		{
			name:       "stranger",
			wallet:     "mallory",
			uri:        "/api/records/1/url",
			body:       `{"url": "https://evil.test"}`,
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "unknown record",
			wallet:     "alice",
			uri:        "/api/records/99/url",
			body:       `{"url": "https://test.com"}`,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "empty url",
			wallet:     "alice",
			uri:        "/api/records/1/url",
			body:       `{"url": ""}`,
			wantStatus: http.StatusUnprocessableEntity,
		},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method: http.MethodPatch,
				URL:    tt.uri,
				Body:   strings.NewReader(tt.body),
				Wallet: tt.wallet,
			})
			defer res.Body.Close()
			s.Equal(tt.wantStatus, res.StatusCode)
		})
	}

	rawURL, err := s.services.Registry.URLOf(context.Background(), slug)
	s.Require().NoError(err)
	s.Equal("https://test.com/after", rawURL)
}

func (s *ControllersSuite) TestTransfer() {
	slug := s.mintRandom("alice", "https://test.com/owned")

	res := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/tokens/1/transfer",
		Body:   strings.NewReader(`{"to": "bob"}`),
		Wallet: "alice",
	})
	defer res.Body.Close()
	s.Require().Equal(http.StatusNoContent, res.StatusCode)

	// Прежний владелец больше не может редактировать URL.
	oldOwnerRes := s.makeRequest(requestFields{
		Method: http.MethodPatch,
		URL:    "/api/records/1/url",
		Body:   strings.NewReader(`{"url": "https://test.com/hijack"}`),
		Wallet: "alice",
	})
	defer oldOwnerRes.Body.Close()
	s.Equal(http.StatusForbidden, oldOwnerRes.StatusCode)

	newOwnerRes := s.makeRequest(requestFields{
		Method: http.MethodPatch,
		URL:    "/api/records/1/url",
		Body:   strings.NewReader(`{"url": "https://test.com/moved"}`),
		Wallet: "bob",
	})
	defer newOwnerRes.Body.Close()
	s.Equal(http.StatusNoContent, newOwnerRes.StatusCode)

	rawURL, err := s.services.Registry.URLOf(context.Background(), slug)
	s.Require().NoError(err)
	s.Equal("https://test.com/moved", rawURL)
}

func (s *ControllersSuite) TestWithdraw() {
	s.Run("zero balance", func() {
		res := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/api/withdraw",
			Wallet: "alice",
		})
		defer res.Body.Close()
		s.Equal(http.StatusUnprocessableEntity, res.StatusCode)
	})

	s.Run("after referral", func() {
		cost := services.MicroUnitsPerUnit / 4 // тариф для 3 символов
		mintRes := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/api/mint",
			Body: fmt.Sprintf(
				`{"url": "https://test.com", "slug": "abc", "referrer": "carol", "payment": %d}`,
				cost,
			),
			Wallet: "alice",
		})
		defer mintRes.Body.Close()
		s.Require().Equal(http.StatusCreated, mintRes.StatusCode)

		res := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/api/withdraw",
			Wallet: "carol",
		})
		defer res.Body.Close()
		s.Require().Equal(http.StatusOK, res.StatusCode)

		var body struct {
			Amount uint64 `json:"amount"`
		}
		s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
		s.Equal(cost/2, body.Amount)

		// Повторный вывод уже невозможен.
		again := s.makeRequest(requestFields{
			Method: http.MethodPost,
			URL:    "/api/withdraw",
			Wallet: "carol",
		})
		defer again.Body.Close()
		s.Equal(http.StatusUnprocessableEntity, again.StatusCode)
	})
}

func (s *ControllersSuite) TestPayments() {
	donationRes := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/payments",
		Body:   strings.NewReader(`{"amount": 777}`),
		Wallet: "alice",
	})
	defer donationRes.Body.Close()
	s.Require().Equal(http.StatusAccepted, donationRes.StatusCode)

	operatorBalance, err := s.services.Fees.BalanceOf(context.Background(), testOperatorAddress)
	s.Require().NoError(err)
	s.Equal(uint64(777), operatorBalance)

	foreignRes := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/payments",
		Body:   strings.NewReader(`{"asset": "SHIB", "amount": 500}`),
		Wallet: "alice",
	})
	defer foreignRes.Body.Close()
	s.Equal(http.StatusAccepted, foreignRes.StatusCode)
}

func (s *ControllersSuite) TestAdmin_auth() {
	tests := []struct {
		name       string
		key        string
		wantStatus int
	}{
		{name: "valid key", key: testOperatorKey, wantStatus: http.StatusOK},
		{name: "wrong key", key: "nope", wantStatus: http.StatusForbidden},
		{name: "missing key", key: "", wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			res := s.makeRequest(requestFields{
				Method:      http.MethodGet,
				URL:         "/api/admin/fee-share",
				OperatorKey: tt.key,
			})
			defer res.Body.Close()
			s.Equal(tt.wantStatus, res.StatusCode)
		})
	}
}

func (s *ControllersSuite) TestAdmin_feeShare() {
	res := s.makeRequest(requestFields{
		Method:      http.MethodPut,
		URL:         "/api/admin/fee-share",
		Body:        strings.NewReader(`{"bips": 2500}`),
		OperatorKey: testOperatorKey,
	})
	defer res.Body.Close()
	s.Require().Equal(http.StatusOK, res.StatusCode)
	s.Equal(uint64(2500), s.services.Fees.FeeShareBips())

	overflow := s.makeRequest(requestFields{
		Method:      http.MethodPut,
		URL:         "/api/admin/fee-share",
		Body:        strings.NewReader(`{"bips": 10001}`),
		OperatorKey: testOperatorKey,
	})
	defer overflow.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, overflow.StatusCode)
	s.Equal(uint64(2500), s.services.Fees.FeeShareBips())
}

func (s *ControllersSuite) TestAdmin_pause() {
	pauseRes := s.makeRequest(requestFields{
		Method:      http.MethodPost,
		URL:         "/api/admin/pause",
		OperatorKey: testOperatorKey,
	})
	defer pauseRes.Body.Close()
	s.Require().Equal(http.StatusNoContent, pauseRes.StatusCode)

	mintRes := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/mint",
		Body:   strings.NewReader(`{"url": "https://test.com"}`),
		Wallet: "alice",
	})
	defer mintRes.Body.Close()
	s.Equal(http.StatusServiceUnavailable, mintRes.StatusCode)

	unpauseRes := s.makeRequest(requestFields{
		Method:      http.MethodPost,
		URL:         "/api/admin/unpause",
		OperatorKey: testOperatorKey,
	})
	defer unpauseRes.Body.Close()
	s.Require().Equal(http.StatusNoContent, unpauseRes.StatusCode)

	retryRes := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/mint",
		Body:   strings.NewReader(`{"url": "https://test.com"}`),
		Wallet: "alice",
	})
	defer retryRes.Body.Close()
	s.Equal(http.StatusCreated, retryRes.StatusCode)
}

func (s *ControllersSuite) TestAdmin_recoverForeign() {
	s.services.Fees.ReceiveForeign("SHIB", 500)

	res := s.makeRequest(requestFields{
		Method:      http.MethodPost,
		URL:         "/api/admin/recover/SHIB",
		OperatorKey: testOperatorKey,
	})
	defer res.Body.Close()
	s.Require().Equal(http.StatusOK, res.StatusCode)

	var body struct {
		Asset  string `json:"asset"`
		Amount uint64 `json:"amount"`
	}
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal("SHIB", body.Asset)
	s.Equal(uint64(500), body.Amount)

	again := s.makeRequest(requestFields{
		Method:      http.MethodPost,
		URL:         "/api/admin/recover/SHIB",
		OperatorKey: testOperatorKey,
	})
	defer again.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, again.StatusCode)
}

func (s *ControllersSuite) TestWalletCookie_issued() {
	// Без куки миддлваре должна выдать новую.
	res := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/mint",
		Body:   strings.NewReader(`{"url": "https://test.com"}`),
	})
	defer res.Body.Close()

	s.Equal(http.StatusCreated, res.StatusCode)

	var found bool
	for _, c := range res.Cookies() {
		if c.Name == middlewares.WalletCookieName {
			found = true
			token, vErr := tokens.ValidateWalletJWT(c.Value, []byte(testJWTSecret))
			s.Require().NoError(vErr)
			s.True(token.Valid)
		}
	}
	s.True(found, "wallet cookie must be set")
}

// mintRandom регистрирует бесплатный слаг от имени wallet и возвращает его.
func (s *ControllersSuite) mintRandom(wallet, rawURL string) string {
	res := s.makeRequest(requestFields{
		Method: http.MethodPost,
		URL:    "/api/mint",
		Body:   strings.NewReader(fmt.Sprintf(`{"url": "%s"}`, rawURL)),
		Wallet: wallet,
	})
	defer res.Body.Close()

	s.Require().Equal(http.StatusCreated, res.StatusCode)

	var body mintResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	return body.Slug
}

type requestFields struct {
	Method      string
	URL         string
	Body        any
	Wallet      string
	OperatorKey string
}

// makeRequest вспомогательная функция создающая тестовый http запрос.
func (s *ControllersSuite) makeRequest(fields requestFields) *http.Response {
	var body io.Reader
	switch b := fields.Body.(type) {
	case nil:
	case io.Reader:
		body = b
	case string:
		body = strings.NewReader(b)
	default:
		s.T().Fatalf("unsupported body type %T", fields.Body)
	}

	request := httptest.NewRequest(fields.Method, fields.URL, body)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if fields.OperatorKey != "" {
		request.Header.Set(middlewares.OperatorKeyHeader, fields.OperatorKey)
	}
	if fields.Wallet != "" {
		jwtString, err := tokens.GenerateWalletJWT(
			fields.Wallet,
			middlewares.WalletJWTExpireDuration,
			[]byte(testJWTSecret),
		)
		if err != nil {
			s.T().Fatalf("failed to sign wallet jwt: %v", err)
		}
		request.AddCookie(&http.Cookie{Name: middlewares.WalletCookieName, Value: jwtString})
	}

	recorder := httptest.NewRecorder()
	s.router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func TestControllersSuite(t *testing.T) {
	suite.Run(t, new(ControllersSuite))
}
