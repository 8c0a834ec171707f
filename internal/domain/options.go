package domain

// Значения по умолчанию для WorkflowOptions.
const (
	// DefaultRuntime — бинарь container runtime.
	DefaultRuntime = "podman"

	// DefaultSharedDir — каталог хоста, который монтируется в каждый контейнер.
	DefaultSharedDir = "/iguana"
)

// WorkflowOptions — настройки одного запуска workflow.
//
// Создаются один раз и передаются во все компоненты только на чтение.
type WorkflowOptions struct {
	// DryRun — собирать вызовы runtime, но не выполнять их.
	DryRun bool `json:"dry_run"`

	// Debug — не удалять контейнеры и образы после выполнения.
	Debug bool `json:"debug"`

	// Privileged — запускать контейнеры с --privileged и монтировать /dev.
	Privileged bool `json:"privileged"`

	// Runtime — имя бинаря container runtime (default: podman).
	Runtime string `json:"runtime,omitempty"`

	// SharedDir — каталог хоста, видимый во всех контейнерах (default: /iguana).
	SharedDir string `json:"shared_dir,omitempty"`
}

// WithDefaults возвращает копию опций с заполненными пустыми полями.
func (o WorkflowOptions) WithDefaults() WorkflowOptions {
	if o.Runtime == "" {
		o.Runtime = DefaultRuntime
	}
	if o.SharedDir == "" {
		o.SharedDir = DefaultSharedDir
	}
	return o
}
