package domain

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Workflow — распарсенное описание workflow.
//
// Workflow строится один раз при загрузке и дальше используется только на чтение.
// Порядок jobs совпадает с порядком ключей в YAML и задаёт порядок выполнения.
type Workflow struct {
	// Name — отображаемое имя workflow (опционально).
	Name string `yaml:"name,omitempty" json:"name,omitempty"`

	// Env — переменные окружения уровня workflow, наследуются каждым job.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	// Jobs — упорядоченный список jobs.
	Jobs JobList `yaml:"jobs" json:"jobs"`
}

// DisplayName возвращает имя workflow для логов.
func (w *Workflow) DisplayName() string {
	if w.Name == "" {
		return "file"
	}
	return w.Name
}

// Job — единица работы: один основной контейнер и опциональные сервисы.
type Job struct {
	// Container — основной контейнер job (обязателен).
	Container Container `yaml:"container" json:"container"`

	// Services — вспомогательные контейнеры, стартуют до основного.
	Services ServiceList `yaml:"services,omitempty" json:"services,omitempty"`

	// Needs — имена jobs, от которых зависит этот job.
	Needs []string `yaml:"needs,omitempty" json:"needs,omitempty"`

	// Steps — шаги внутри контейнера. Пока не выполняются.
	Steps []Step `yaml:"steps,omitempty" json:"steps,omitempty"`

	// ContinueOnError — не прерывать workflow, если этот job упал.
	ContinueOnError bool `yaml:"continue_on_error,omitempty" json:"continue_on_error,omitempty"`
}

// UnmarshalYAML декодирует job и проверяет наличие ключа container.
func (j *Job) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Container       *Container  `yaml:"container"`
		Services        ServiceList `yaml:"services"`
		Needs           []string    `yaml:"needs"`
		Steps           []Step      `yaml:"steps"`
		ContinueOnError bool        `yaml:"continue_on_error"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Container == nil {
		return fmt.Errorf("line %d: %w", value.Line, ErrNoContainer)
	}

	*j = Job{
		Container:       *raw.Container,
		Services:        raw.Services,
		Needs:           raw.Needs,
		Steps:           raw.Steps,
		ContinueOnError: raw.ContinueOnError,
	}
	return nil
}

// Container — описание контейнера.
type Container struct {
	// Image — ссылка на образ. Проверяется на пустоту при запуске job.
	Image string `yaml:"image" json:"image"`

	// Env — переменные окружения контейнера.
	Env map[string]string `yaml:"env,omitempty" json:"env,omitempty"`

	// Volumes — тома в формате "source:target".
	// source используется как имя named volume.
	Volumes []string `yaml:"volumes,omitempty" json:"volumes,omitempty"`
}

// Step — шаг внутри контейнера (зарезервировано, не выполняется).
type Step struct {
	Name string            `yaml:"name,omitempty" json:"name,omitempty"`
	Run  string            `yaml:"run" json:"run"`
	Uses string            `yaml:"uses,omitempty" json:"uses,omitempty"`
	With string            `yaml:"with,omitempty" json:"with,omitempty"`
	Env  map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
}

// Ошибки декодирования модели.
var (
	// ErrDuplicateName — имя job или service встречается дважды.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrNoContainer — у job нет ключа container.
	ErrNoContainer = errors.New("job has no container")

	// ErrNotMapping — ожидался YAML mapping.
	ErrNotMapping = errors.New("expected a mapping")
)

// NamedJob — job вместе с его именем.
type NamedJob struct {
	Name string `json:"name"`
	Job  Job    `json:"job"`
}

// JobList — упорядоченный mapping имя → Job.
type JobList []NamedJob

// UnmarshalYAML сохраняет порядок ключей mapping.
func (l *JobList) UnmarshalYAML(value *yaml.Node) error {
	names, jobs, err := decodeOrdered[Job](value)
	if err != nil {
		return err
	}

	list := make(JobList, len(names))
	for i := range names {
		list[i] = NamedJob{Name: names[i], Job: jobs[i]}
	}
	*l = list
	return nil
}

// Get возвращает job по имени.
func (l JobList) Get(name string) (*Job, bool) {
	for i := range l {
		if l[i].Name == name {
			return &l[i].Job, true
		}
	}
	return nil, false
}

// Names возвращает имена jobs в порядке объявления.
func (l JobList) Names() []string {
	names := make([]string, len(l))
	for i := range l {
		names[i] = l[i].Name
	}
	return names
}

// NamedContainer — сервисный контейнер вместе с его именем.
type NamedContainer struct {
	Name      string    `json:"name"`
	Container Container `json:"container"`
}

// ServiceList — упорядоченный mapping имя сервиса → Container.
type ServiceList []NamedContainer

// UnmarshalYAML сохраняет порядок объявления сервисов.
func (l *ServiceList) UnmarshalYAML(value *yaml.Node) error {
	names, containers, err := decodeOrdered[Container](value)
	if err != nil {
		return err
	}

	list := make(ServiceList, len(names))
	for i := range names {
		list[i] = NamedContainer{Name: names[i], Container: containers[i]}
	}
	*l = list
	return nil
}

// ServiceContainerName возвращает имя, под которым запускается сервис job.
// По этому имени сервис останавливается при очистке.
func ServiceContainerName(job, service string) string {
	return job + "-" + service
}

// decodeOrdered декодирует YAML mapping в пары (ключ, значение) в исходном порядке.
func decodeOrdered[T any](value *yaml.Node) ([]string, []T, error) {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil, nil, nil
	}
	if value.Kind != yaml.MappingNode {
		return nil, nil, fmt.Errorf("line %d: %w", value.Line, ErrNotMapping)
	}

	n := len(value.Content) / 2
	keys := make([]string, 0, n)
	values := make([]T, 0, n)
	seen := make(map[string]bool, n)

	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]

		key := keyNode.Value
		if seen[key] {
			return nil, nil, fmt.Errorf("line %d: %w: %s", keyNode.Line, ErrDuplicateName, key)
		}
		seen[key] = true

		var v T
		if err := valNode.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", key, err)
		}

		keys = append(keys, key)
		values = append(values, v)
	}

	return keys, values, nil
}
