package carriers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"freight-voice-backend/internal/payload"
)

// DefaultFMCSABaseURL is the public FMCSA QCMobile API root.
const DefaultFMCSABaseURL = "https://mobile.fmcsa.dot.gov/qc/services"

const verifyTimeout = 10 * time.Second

// Result is the outcome of one verification attempt. OK reports that the
// attempt itself ran; a carrier that failed eligibility, an FMCSA outage and
// a missing web key all come back OK with Eligible false and a Reason, so a
// live call never hard-fails on verification.

type Result struct {
	OK       bool           `json:"ok"`
	Eligible bool           `json:"eligible"`
	Reason   string         `json:"reason"`
	Carrier  *Carrier       `json:"carrier"`
	Raw      payload.Fields `json:"raw"`
}

// Carrier is the snapshot pulled out of an FMCSA record.

type Carrier struct {
	Name             string `json:"name"`
	MCNumber         string `json:"mc_number"`
	DOTNumber        string `json:"dot_number"`
	AllowedToOperate string `json:"allowed_to_operate"`
	OutOfService     string `json:"out_of_service"`
	SafetyRating     string `json:"safety_rating"`
	PhysicalCity     string `json:"physical_city"`
	PhysicalState    string `json:"physical_state"`
}

// ProfileUpdate maps the snapshot onto stored-profile fields. Empty values
// stay nil so a sparse FMCSA record cannot blank out data learned earlier.
func (c *Carrier) ProfileUpdate() ProfileUpdate {
	return ProfileUpdate{
		DOTNumber:     nonEmpty(c.DOTNumber),
		LegalName:     nonEmpty(c.Name),
		PhysicalCity:  nonEmpty(c.PhysicalCity),
		PhysicalState: nonEmpty(c.PhysicalState),
	}
}

// Verifier checks carrier eligibility against the FMCSA QCMobile API.
// Lookups are cached by MC number when a Cache is attached.
type Verifier struct {
	baseURL string
	webKey  string
	client  *http.Client
	cache   *Cache
}

// NewVerifier builds a Verifier. An empty baseURL selects the public FMCSA
// endpoint; an empty webKey leaves the verifier unconfigured, in which case
// every lookup reports Eligible false with a fixed reason.
func NewVerifier(baseURL, webKey string, cache *Cache) *Verifier {
	if baseURL == "" {
		baseURL = DefaultFMCSABaseURL
	}
	return &Verifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		webKey:  webKey,
		client:  &http.Client{Timeout: verifyTimeout},
		cache:   cache,
	}
}

// Verify looks up mcNumber (already normalized, see NormalizeMC) and decides
// eligibility: the carrier must be allowed to operate and not out of service.
// Failures never surface as errors; they come back as ineligible Results
// whose Reason says what went wrong.
func (v *Verifier) Verify(ctx context.Context, mcNumber string) Result {
	res := Result{OK: true}
	if v.webKey == "" {
		res.Reason = "FMCSA_WEBKEY not configured"
		return res
	}

	if raw, ok := v.cache.lookup(ctx, mcNumber); ok {
		return buildResult(mcNumber, raw)
	}

	u := fmt.Sprintf("%s/carriers/docket-number/%s?webKey=%s",
		v.baseURL, url.PathEscape(mcNumber), url.QueryEscape(v.webKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	resp, err := v.client.Do(req)
	if err != nil {
		res.Reason = err.Error()
		return res
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		res.Reason = "MC not found"
		return res
	}
	if resp.StatusCode != http.StatusOK {
		res.Reason = fmt.Sprintf("FMCSA API error: %d", resp.StatusCode)
		return res
	}

	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		res.Reason = err.Error()
		return res
	}
	data := payload.Normalize(body)
	content := payload.List(data, "content")
	if len(content) == 0 {
		res.Reason = "MC not found"
		res.Raw = data
		return res
	}

	raw := payload.Map(payload.Normalize(content[0]), "carrier")
	if raw == nil {
		raw = payload.Fields{}
	}
	v.cache.store(ctx, mcNumber, raw)
	return buildResult(mcNumber, raw)
}

func buildResult(mcNumber string, raw payload.Fields) Result {
	allowed := stringOr(raw, "allowedToOperate", "N")
	outOfService := stringOr(raw, "outOfService", "N")
	eligible := allowed == "Y" && outOfService != "Y"

	reason := ""
	switch {
	case eligible:
	case allowed != "Y":
		reason = "Carrier is not allowed to operate"
	default:
		reason = "Carrier is currently out of service"
	}

	return Result{
		OK:       true,
		Eligible: eligible,
		Reason:   reason,
		Carrier: &Carrier{
			Name:             payload.String(raw, "legalName", "dbaName"),
			MCNumber:         mcNumber,
			DOTNumber:        payload.String(raw, "dotNumber"),
			AllowedToOperate: allowed,
			OutOfService:     outOfService,
			SafetyRating:     payload.String(raw, "safetyRating"),
			PhysicalCity:     payload.String(raw, "phyCity"),
			PhysicalState:    payload.String(raw, "phyState"),
		},
		Raw: raw,
	}
}

func stringOr(f payload.Fields, key, fallback string) string {
	if s := payload.String(f, key); s != "" {
		return s
	}
	return fallback
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
