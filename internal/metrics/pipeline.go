package metrics

import (
	"net/http"
	"time"

	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline инкапсулирует Prometheus-метрики генерации и построения сетки.
// Все методы допускают nil-получатель: без метрик конвейер работает так же.
//
// Метрики:
// * voxel_chunks_generated_total - counter
// * voxel_chunks_skipped_total - counter (чанк уже был в карте)
// * voxel_chunks_cached_total - counter (чанк прочитан из кэша)
// * voxel_voxels_solid_total - counter
// * voxel_chunk_generate_duration_seconds - histogram
// * voxel_mesh_vertices_total / voxel_mesh_indices_total - counter
// * voxel_mesh_build_duration_seconds - histogram
type Pipeline struct {
	chunksGenerated prometheus.Counter
	chunksSkipped   prometheus.Counter
	chunksCached    prometheus.Counter
	voxelsSolid     prometheus.Counter
	generateTime    prometheus.Histogram
	meshVertices    prometheus.Counter
	meshIndices     prometheus.Counter
	meshTime        prometheus.Histogram
}

// NewPipeline создаёт метрики и регистрирует их в reg (nil - глобальный регистр Prometheus)
func NewPipeline(reg prometheus.Registerer) *Pipeline {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	p := &Pipeline{
		chunksGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_generated_total",
			Help:      "Общее число сгенерированных чанков.",
		}),
		chunksSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_skipped_total",
			Help:      "Чанков, пропущенных из-за наличия в карте.",
		}),
		chunksCached: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_cached_total",
			Help:      "Чанков, прочитанных из кэша вместо генерации.",
		}),
		voxelsSolid: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "voxels_solid_total",
			Help:      "Общее число твёрдых вокселей в сгенерированных чанках.",
		}),
		generateTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "chunk_generate_duration_seconds",
			Help:      "Длительность генерации одного чанка.",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25},
		}),
		meshVertices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "mesh_vertices_total",
			Help:      "Общее число выданных вершин.",
		}),
		meshIndices: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "mesh_indices_total",
			Help:      "Общее число выданных индексов треугольников.",
		}),
		meshTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "mesh_build_duration_seconds",
			Help:      "Длительность построения сетки по карте чанков.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}

	reg.MustRegister(
		p.chunksGenerated, p.chunksSkipped, p.chunksCached, p.voxelsSolid, p.generateTime,
		p.meshVertices, p.meshIndices, p.meshTime,
	)
	return p
}

// ChunkGenerated учитывает один сгенерированный чанк
func (p *Pipeline) ChunkGenerated(solid int, took time.Duration) {
	if p == nil {
		return
	}
	p.chunksGenerated.Inc()
	p.voxelsSolid.Add(float64(solid))
	p.generateTime.Observe(took.Seconds())
}

// ChunkSkipped учитывает чанк, который уже был в карте
func (p *Pipeline) ChunkSkipped() {
	if p == nil {
		return
	}
	p.chunksSkipped.Inc()
}

// ChunkCached учитывает чанк, прочитанный из кэша
func (p *Pipeline) ChunkCached() {
	if p == nil {
		return
	}
	p.chunksCached.Inc()
}

// MeshBuilt учитывает построенную сетку
func (p *Pipeline) MeshBuilt(vertices, indices int, took time.Duration) {
	if p == nil {
		return
	}
	p.meshVertices.Add(float64(vertices))
	p.meshIndices.Add(float64(indices))
	p.meshTime.Observe(took.Seconds())
}

// StartHTTP запускает HTTP-эндпоинт /metrics на указанном адресе (например, ":2112").
// Метод неблокирующий: сервер стартует в отдельной горутине.
func StartHTTP(addr string, gatherer prometheus.Gatherer) *http.Server {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logging.Info("📈 Prometheus /metrics доступен по адресу %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Error("Ошибка Prometheus HTTP сервера: %v", err)
		}
	}()
	return srv
}
