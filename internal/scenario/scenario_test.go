// Package scenario runs the protocol engine end-to-end through its HTTP
// transport (internal/api), the way a real client would drive it, covering
// spec.md §8's S-series scenarios plus the adversarial overwrite path.
package scenario_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/noiseproto/binomial-dp/internal/api"
	"github.com/noiseproto/binomial-dp/pkg/registry"
)

func newServer(cheat bool) *httptest.Server {
	reg := registry.New()
	var opts []api.Option
	if cheat {
		opts = append(opts, api.WithCheatEndpoint())
	}
	return httptest.NewServer(api.NewRouter(reg, opts...))
}

func do(srv *httptest.Server, method, path string, body any) (int, map[string]any) {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		Expect(err).NotTo(HaveOccurred())
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, srv.URL+path, r)
	Expect(err).NotTo(HaveOccurred())
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())

	out := map[string]any{}
	if len(raw) > 0 {
		Expect(json.Unmarshal(raw, &out)).To(Succeed())
	}
	return resp.StatusCode, out
}

var _ = Describe("unbiased-noise protocol run", func() {
	var srv *httptest.Server

	BeforeEach(func() {
		srv = newServer(false)
	})
	AfterEach(func() {
		srv.Close()
	})

	It("completes a full round trip with a sound final check", func() {
		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1, 0, 1, 1, 0}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/private-randomness",
			map[string]any{"bits": []int{0, 1, 1, 0, 0}})
		Expect(status).To(Equal(http.StatusOK))

		status, pub := do(srv, http.MethodGet, "/sessions/"+id+"/public-random", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(pub["public_random"]).To(HaveLen(5))

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/sum", nil)
		Expect(status).To(Equal(http.StatusOK))

		status, final := do(srv, http.MethodPost, "/sessions/"+id+"/finalise", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(final["sound"]).To(BeTrue())
		Expect(final["cheating"]).To(BeFalse())
		Expect(final["proof_failures"]).To(HaveLen(5))
	})

	It("returns 404 for xor-bits of an unknown session id alongside a live one", func() {
		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)
		_ = id // IDs are generated server-side, so a duplicate-ID conflict cannot be provoked over HTTP

		status, _ = do(srv, http.MethodGet, "/sessions/does-not-exist/xor-bits", nil)
		Expect(status).To(Equal(http.StatusNotFound))
	})

	It("reports a protocol-sequence conflict for out-of-order calls", func() {
		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/sum", nil)
		Expect(status).To(Equal(http.StatusConflict))
	})
})

var _ = Describe("biased-noise (range-sampling) protocol run", func() {
	var srv *httptest.Server

	BeforeEach(func() {
		srv = newServer(false)
	})
	AfterEach(func() {
		srv.Close()
	})

	It("completes a full round trip with k-of-m ranges", func() {
		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1, 1, 0}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/biased-p/init", map[string]any{"n": 3})
		Expect(status).To(Equal(http.StatusOK))

		for i := 0; i < 3; i++ {
			status, accepted := do(srv, http.MethodPost, "/sessions/"+id+"/biased-p/range",
				map[string]any{"k": 2, "m": 4, "bits": []int{1, 1, 0, 0}})
			Expect(status).To(Equal(http.StatusOK))
			Expect(accepted["accepted"]).To(BeTrue())
		}

		status, accepted := do(srv, http.MethodPost, "/sessions/"+id+"/biased-p/end", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(accepted["accepted"]).To(BeTrue())

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/sum", nil)
		Expect(status).To(Equal(http.StatusOK))

		status, final := do(srv, http.MethodPost, "/sessions/"+id+"/finalise", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(final["sound"]).To(BeTrue())
		Expect(final).NotTo(HaveKey("proof_failures"))
	})

	It("rejects a range submission whose bits don't sum to k", func() {
		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/biased-p/init", map[string]any{"n": 1})
		Expect(status).To(Equal(http.StatusOK))

		status, accepted := do(srv, http.MethodPost, "/sessions/"+id+"/biased-p/range",
			map[string]any{"k": 2, "m": 4, "bits": []int{1, 0, 0, 0}})
		Expect(status).To(Equal(http.StatusOK))
		Expect(accepted["accepted"]).To(BeFalse())
	})
})

var _ = Describe("malicious participant overwriting its xor bits", func() {
	It("is caught by the final soundness check when the cheat endpoint is enabled", func() {
		srv := newServer(true)
		defer srv.Close()

		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1, 0}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/private-randomness", map[string]any{"bits": []int{0, 0}})
		Expect(status).To(Equal(http.StatusOK))

		status, xorBits := do(srv, http.MethodGet, "/sessions/"+id+"/xor-bits", nil)
		Expect(status).To(Equal(http.StatusOK))

		bits := xorBits["xor_bits"].([]any)
		tampered := make([]int, len(bits))
		for i, b := range bits {
			tampered[i] = int(b.(float64))
		}
		tampered[0] = 1 - tampered[0]

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/xor-bits:overwrite",
			map[string]any{"bits": tampered})
		Expect(status).To(Equal(http.StatusOK))

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/sum", nil)
		Expect(status).To(Equal(http.StatusOK))

		status, final := do(srv, http.MethodPost, "/sessions/"+id+"/finalise", nil)
		Expect(status).To(Equal(http.StatusOK))
		Expect(final["sound"]).To(BeFalse())
		Expect(final["cheating"]).To(BeTrue())
	})

	It("is forbidden by default when the cheat endpoint is not enabled", func() {
		srv := newServer(false)
		defer srv.Close()

		status, created := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{1}})
		Expect(status).To(Equal(http.StatusCreated))
		id := created["id"].(string)

		status, _ = do(srv, http.MethodPost, "/sessions/"+id+"/xor-bits:overwrite",
			map[string]any{"bits": []int{0}})
		Expect(status).To(Equal(http.StatusForbidden))
	})
})

var _ = Describe("malformed and unknown requests", func() {
	It("rejects a non-binary input bit at session creation", func() {
		srv := newServer(false)
		defer srv.Close()

		status, _ := do(srv, http.MethodPost, "/sessions", map[string]any{"bits": []int{0, 2}})
		Expect(status).To(Equal(http.StatusBadRequest))
	})

	It("returns 404 for queries against an unknown session id", func() {
		srv := newServer(false)
		defer srv.Close()

		status, _ := do(srv, http.MethodGet, "/sessions/nonexistent/input-commits", nil)
		Expect(status).To(Equal(http.StatusNotFound))
	})
})
