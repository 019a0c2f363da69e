package aspect

import (
	"github.com/bittoy/xdevs/types"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// 当前虚拟时间
	virtualTime = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "xdevs",
			Subsystem: "simulation",
			Name:      "virtual_time",
			Help:      "Virtual time reached by the simulation",
		},
		[]string{"model"},
	)
)

func init() {
	// 注册指标
	prometheus.MustRegister(virtualTime)
}

var (
	_ types.IterationAspect = (*MetricsAspect)(nil)
	_ types.StopAspect      = (*MetricsAspect)(nil)
)

// MetricsAspect exports the virtual-time progress of the simulation as a
// prometheus gauge, labelled by the root model name.
// MetricsAspect 将仿真的虚拟时间进度导出为 prometheus 指标，
// 按根模型名称打标签。
type MetricsAspect struct {
}

// Order returns the execution order of this aspect.
func (aspect *MetricsAspect) Order() int {
	return 100
}

// New creates a new instance of the MetricsAspect.
func (aspect *MetricsAspect) New() types.Aspect {
	return &MetricsAspect{}
}

// Type returns the unique identifier for this aspect type.
func (aspect *MetricsAspect) Type() string {
	return "metrics"
}

// PointCut applies the aspect to every iteration.
func (aspect *MetricsAspect) PointCut(t float64) bool {
	return true
}

func (aspect *MetricsAspect) Before(root types.Simulator, t float64) {
}

func (aspect *MetricsAspect) After(root types.Simulator, t float64, tNext float64) {
	virtualTime.WithLabelValues(root.GetName()).Set(t)
}

func (aspect *MetricsAspect) OnStop(root types.Simulator, tStop float64) {
	virtualTime.WithLabelValues(root.GetName()).Set(tStop)
}
