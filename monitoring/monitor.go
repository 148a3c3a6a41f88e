// Package monitoring turns a piece buffer into an HTTP server so that it can
// be inspected and driven from outside the console.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/piecebuf/piecebuf/buffer"
	"github.com/piecebuf/piecebuf/piece"
	"github.com/piecebuf/piecebuf/queueing"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
)

// Monitor serves the state of a buffer and accepts operations over HTTP.
type Monitor struct {
	buf        *buffer.Buffer
	containers []queueing.Container
	portNumber int

	server *http.Server
}

// NewMonitor creates a new Monitor
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n", portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterBuffer sets the buffer to be monitored, together with its
// containers.
func (m *Monitor) RegisterBuffer(b *buffer.Buffer) {
	m.buf = b
	m.containers = append(m.containers,
		b.QueueContainer(),
		b.ReserveContainer(),
	)
}

// Handler returns the router serving the monitoring API.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/state", m.state).Methods(http.MethodGet)
	r.HandleFunc("/api/op/{name}", m.runOp).Methods(http.MethodPost)
	r.HandleFunc("/api/buffers", m.listBuffers).Methods(http.MethodGet)
	r.HandleFunc("/api/detail", m.detail).Methods(http.MethodGet)
	r.HandleFunc("/api/resource", m.listResources).Methods(http.MethodGet)
	r.HandleFunc("/api/profile", m.collectProfile).Methods(http.MethodGet)

	return r
}

// StartServer starts the monitor as a web server and returns its URL.
func (m *Monitor) StartServer() (string, error) {
	if m.buf == nil {
		return "", errors.New("no buffer registered")
	}

	actualPort := ":0"
	if m.portNumber > 1000 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)

	fmt.Fprintf(os.Stderr, "Monitoring buffer with %s\n", url)

	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("monitoring server stopped: %v", err)
		}
	}()

	return url, nil
}

// Shutdown stops a started server.
func (m *Monitor) Shutdown(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

type stateRsp struct {
	Queue      []piece.Piece `json:"queue"`
	Reserve    []piece.Piece `json:"reserve"`
	QueueCap   int           `json:"queue_cap"`
	ReserveCap int           `json:"reserve_cap"`
}

func (m *Monitor) state(w http.ResponseWriter, _ *http.Request) {
	s := m.buf.Snapshot()

	writeJSON(w, http.StatusOK, stateRsp{
		Queue:      s.Queue,
		Reserve:    s.Reserve,
		QueueCap:   m.buf.QueueContainer().Capacity(),
		ReserveCap: m.buf.ReserveContainer().Capacity(),
	})
}

type errorRsp struct {
	Error string `json:"error"`
}

func (m *Monitor) runOp(w http.ResponseWriter, r *http.Request) {
	op, err := buffer.ParseOp(mux.Vars(r)["name"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorRsp{Error: err.Error()})
		return
	}

	res, err := m.buf.Do(op)
	if err != nil {
		writeJSON(w, http.StatusConflict, errorRsp{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, res)
}

type bufferLevel struct {
	Buffer string `json:"buffer"`
	Level  int    `json:"level"`
	Cap    int    `json:"cap"`
}

func (m *Monitor) listBuffers(w http.ResponseWriter, r *http.Request) {
	sortMethod, limit, offset, err := m.buffersParseParams(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintf(w, "Error: %s", err)

		return
	}

	selected := m.sortAndSelectBuffers(sortMethod, limit, offset)

	levels := make([]bufferLevel, 0, len(selected))
	for _, c := range selected {
		levels = append(levels, bufferLevel{
			Buffer: c.Name(),
			Level:  c.Size(),
			Cap:    c.Capacity(),
		})
	}

	writeJSON(w, http.StatusOK, levels)
}

func (*Monitor) buffersParseParams(
	r *http.Request,
) (sortMethod string, limit, offset int, err error) {
	sortMethod = r.URL.Query().Get("sort")
	if sortMethod == "" {
		sortMethod = "percent"
	}

	if sortMethod != "level" && sortMethod != "percent" {
		return "", 0, 0, fmt.Errorf(
			"invalid sort method: %s. Allowed values are `level` and `percent`",
			sortMethod)
	}

	limit, err = intParam(r, "limit")
	if err != nil {
		return sortMethod, 0, 0, err
	}

	offset, err = intParam(r, "offset")
	if err != nil {
		return sortMethod, limit, 0, err
	}

	return sortMethod, limit, offset, nil
}

func intParam(r *http.Request, name string) (int, error) {
	str := r.URL.Query().Get(name)
	if str == "" {
		return 0, nil
	}

	n, err := strconv.Atoi(str)
	if err != nil {
		return 0, err
	}

	if n < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}

	return n, nil
}

func bufferPercent(c queueing.Container) float64 {
	return float64(c.Size()) / float64(c.Capacity())
}

// sortAndSelectBuffers orders the containers by fill level or fill ratio,
// fullest first, and returns the requested page. A zero limit means all.
func (m *Monitor) sortAndSelectBuffers(
	sortMethod string,
	limit, offset int,
) []queueing.Container {
	sorted := make([]queueing.Container, len(m.containers))
	copy(sorted, m.containers)

	byLevel := func(i, j int) (bool, bool) {
		sizeI, sizeJ := sorted[i].Size(), sorted[j].Size()
		return sizeI > sizeJ, sizeI == sizeJ
	}
	byPercent := func(i, j int) (bool, bool) {
		pI, pJ := bufferPercent(sorted[i]), bufferPercent(sorted[j])
		return pI > pJ, pI == pJ
	}

	primary, secondary := byPercent, byLevel
	if sortMethod == "level" {
		primary, secondary = byLevel, byPercent
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		if less, tie := primary(i, j); !tie {
			return less
		}

		less, _ := secondary(i, j)

		return less
	})

	if offset > len(sorted) {
		offset = len(sorted)
	}

	end := len(sorted)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}

	return sorted[offset:end]
}

// detailDepth reaches the fields of the pieces inside the snapshot. The
// detail sits at depth 0, so pieces are at depth 3.
const detailDepth = 4

// bufferDetail is the tree served by /api/detail.
type bufferDetail struct {
	Name       string
	QueueCap   int
	ReserveCap int
	State      buffer.State
}

func (m *Monitor) detail(w http.ResponseWriter, _ *http.Request) {
	d := &bufferDetail{
		Name:       m.buf.Name(),
		QueueCap:   m.buf.QueueContainer().Capacity(),
		ReserveCap: m.buf.ReserveContainer().Capacity(),
		State:      m.buf.Snapshot(),
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(d)
	serializer.SetMaxDepth(detailDepth)

	err := serializer.Serialize(w)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorRsp{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		writeJSON(w, http.StatusConflict, errorRsp{Error: err.Error()})
		return
	}

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	writeJSON(w, http.StatusOK, prof)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	dieOnErr(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_, err = w.Write(data)
	if err != nil {
		log.Printf("monitoring: write response: %v", err)
	}
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
