package engine

import (
	"github.com/bittoy/xdevs/builtin/aspect"
	"github.com/bittoy/xdevs/types"
)

// BuiltinsAspects are added to every root coordinator during
// initialization unless an aspect of the same type was already provided.
// 这些切面在初始化期间自动添加到每个根协调器中，
// 除非已经提供了相同类型的自定义切面。
var BuiltinsAspects = []types.Aspect{&aspect.TopologyValidator{}, &aspect.MetricsAspect{}}

// NewConfig creates a new Config and applies the options.
// It initializes all necessary components with sensible defaults.
//
// NewConfig 创建新的配置并应用选项。
// 它使用合理的默认值初始化所有必要的组件。
//
// Default components include:
// 默认组件包括：
//   - JSON parser for model-tree definitions  模型树定义的 JSON 解析器
//   - Default builder registry with the bundled model builders  包含自带模型构建器的默认注册表
func NewConfig(opts ...types.Option) types.Config {
	c := types.NewConfig(opts...)
	if c.Parser == nil {
		c.Parser = &JsonParser{}
	}
	if c.ModelsRegistry == nil {
		c.ModelsRegistry = Registry
	}
	return c
}

// Option configures a RootCoordinator.
type Option func(*RootCoordinator) error

// WithConfig is an option that sets the Config of the RootCoordinator.
// WithConfig 是设置 RootCoordinator 配置的选项。
func WithConfig(config types.Config) Option {
	return func(c *RootCoordinator) error {
		c.config = config
		return nil
	}
}

// WithAspects is an option that sets the aspects of the RootCoordinator.
// Aspects provide AOP capabilities for cross-cutting concerns like
// logging, metrics, and topology validation.
// WithAspects 是设置 RootCoordinator 切面的选项。
// 切面为日志记录、指标和拓扑验证等横切关注点提供 AOP 功能。
func WithAspects(aspects ...types.Aspect) Option {
	return func(c *RootCoordinator) error {
		c.aspects = aspects
		return nil
	}
}
