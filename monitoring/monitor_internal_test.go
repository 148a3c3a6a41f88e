package monitoring

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/piece"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Monitor", func() {
	var (
		buf     *buffer.Buffer
		m       *Monitor
		handler http.Handler
	)

	BeforeEach(func() {
		buf = buffer.Builder{}.
			WithSource(piece.NewCyclicSource(nil, nil)).
			Build("Buffer")

		m = NewMonitor()
		m.RegisterBuffer(buf)
		handler = m.Handler()
	})

	serve := func(method, target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(method, target, nil))

		return rec
	}

	It("should register the queue and the reserve", func() {
		Expect(m.containers).To(HaveLen(2))
		Expect(m.containers[0].Name()).To(Equal("Buffer.Queue"))
		Expect(m.containers[1].Name()).To(Equal("Buffer.Reserve"))
	})

	It("should fall back to a random port below 1000", func() {
		Expect(NewMonitor().WithPortNumber(80).portNumber).To(Equal(0))
		Expect(NewMonitor().WithPortNumber(8080).portNumber).To(Equal(8080))
	})

	It("should serve the state", func() {
		rec := serve(http.MethodGet, "/api/state")

		Expect(rec.Code).To(Equal(http.StatusOK))

		var rsp stateRsp
		Expect(json.Unmarshal(rec.Body.Bytes(), &rsp)).To(Succeed())
		Expect(rsp.Queue).To(HaveLen(5))
		Expect(rsp.Queue[0]).To(Equal(piece.Piece{Kind: piece.KindI, ID: 0}))
		Expect(rsp.Reserve).To(BeEmpty())
		Expect(rsp.QueueCap).To(Equal(5))
		Expect(rsp.ReserveCap).To(Equal(3))
	})

	It("should run operations by name and by code", func() {
		rec := serve(http.MethodPost, "/api/op/reserve")
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(rec.Body.String()).To(ContainSubstring(`"op":"reserve"`))

		rec = serve(http.MethodPost, "/api/op/4")
		Expect(rec.Code).To(Equal(http.StatusOK))

		Expect(buf.ReservePieces()).To(Equal([]piece.Piece{
			{Kind: piece.KindO, ID: 1},
		}))
	})

	It("should report failed operations without mutating", func() {
		before := buf.Snapshot()

		rec := serve(http.MethodPost, "/api/op/use")

		Expect(rec.Code).To(Equal(http.StatusConflict))
		Expect(rec.Body.String()).To(ContainSubstring("container is empty"))
		Expect(buf.Snapshot()).To(Equal(before))
	})

	It("should reject unknown operations", func() {
		rec := serve(http.MethodPost, "/api/op/jump")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should only accept POST for operations", func() {
		rec := serve(http.MethodGet, "/api/op/play")

		Expect(rec.Code).To(Equal(http.StatusMethodNotAllowed))
	})

	It("should list buffers by fill ratio", func() {
		_, _ = buf.Reserve()

		rec := serve(http.MethodGet, "/api/buffers")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var levels []bufferLevel
		Expect(json.Unmarshal(rec.Body.Bytes(), &levels)).To(Succeed())
		Expect(levels).To(Equal([]bufferLevel{
			{Buffer: "Buffer.Queue", Level: 5, Cap: 5},
			{Buffer: "Buffer.Reserve", Level: 1, Cap: 3},
		}))
	})

	It("should page buffers", func() {
		rec := serve(http.MethodGet, "/api/buffers?sort=level&limit=1&offset=1")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var levels []bufferLevel
		Expect(json.Unmarshal(rec.Body.Bytes(), &levels)).To(Succeed())
		Expect(levels).To(Equal([]bufferLevel{
			{Buffer: "Buffer.Reserve", Level: 0, Cap: 3},
		}))
	})

	It("should clamp a page limit past the end", func() {
		rec := serve(http.MethodGet,
			"/api/buffers?sort=level&limit=9223372036854775807&offset=1")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var levels []bufferLevel
		Expect(json.Unmarshal(rec.Body.Bytes(), &levels)).To(Succeed())
		Expect(levels).To(Equal([]bufferLevel{
			{Buffer: "Buffer.Reserve", Level: 0, Cap: 3},
		}))
	})

	It("should serialize the pieces in the detail tree", func() {
		rec := serve(http.MethodGet, "/api/detail")
		Expect(rec.Code).To(Equal(http.StatusOK))

		var tree struct {
			Dict map[string]map[string]any `json:"dict"`
		}
		Expect(json.Unmarshal(rec.Body.Bytes(), &tree)).To(Succeed())

		pieces := 0
		for _, item := range tree.Dict {
			_, hasValue := item["v"]
			if item["t"] == "github.com/piecebuf/piecebuf/piece.Piece" && hasValue {
				pieces++
			}
		}
		Expect(pieces).To(BeNumerically(">=", buffer.QueueCapacity))
	})

	It("should reject an invalid sort method", func() {
		rec := serve(http.MethodGet, "/api/buffers?sort=name")

		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("should refuse to start without a buffer", func() {
		_, err := NewMonitor().StartServer()

		Expect(err).To(HaveOccurred())
	})
})
