package engine

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Iguana/internal/domain"
)

// Parse парсит YAML описание workflow.
//
// Порядок jobs и services сохраняется таким, как в документе.
// Валидация не выполняется, см. Validate.
func Parse(data []byte) (*domain.Workflow, error) {
	var wf domain.Workflow
	if err := yaml.Unmarshal(data, &wf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseWorkflow, err)
	}
	return &wf, nil
}

// Validate проверяет workflow перед запуском.
//
// Проверяет:
// - Наличие jobs
// - Непустые имена jobs
//
// Ссылки в needs не проверяются: неизвестные, объявленные ниже и
// собственное имя job только дают предупреждения Lint.
//
// Пустой образ контейнера здесь не проверяется: это ошибка запуска
// конкретного job, а не всего workflow.
func Validate(wf *domain.Workflow) error {
	if wf == nil || len(wf.Jobs) == 0 {
		return ErrNoJobs
	}

	for _, nj := range wf.Jobs {
		if nj.Name == "" {
			return NewValidationError("", "jobs", "job has empty name", ErrEmptyJobName)
		}
	}

	return nil
}

// Lint возвращает предупреждения, которые не мешают запуску.
//
// Зависимость на job, объявленный ниже по файлу (или не объявленный вовсе),
// не будет проверена планировщиком: на момент проверки у неё ещё нет статуса.
func Lint(wf *domain.Workflow) []string {
	warnings := make([]string, 0)
	if wf == nil {
		return warnings
	}

	declared := make(map[string]bool, len(wf.Jobs))
	for _, nj := range wf.Jobs {
		for _, need := range nj.Job.Needs {
			if declared[need] {
				continue
			}
			if need == nj.Name {
				// На момент проверки у job статус NO_STATUS, поэтому он выполнится
				warnings = append(warnings,
					fmt.Sprintf("job %s requires itself, the requirement has no effect", nj.Name))
				continue
			}
			if _, exists := wf.Jobs.Get(need); exists {
				warnings = append(warnings,
					fmt.Sprintf("job %s requires %s which is declared later, dependency check will be skipped", nj.Name, need))
			} else {
				warnings = append(warnings,
					fmt.Sprintf("job %s requires unknown job %s, dependency check will be skipped", nj.Name, need))
			}
		}

		if nj.Job.Container.Image == "" {
			warnings = append(warnings, fmt.Sprintf("job %s has no image and will fail", nj.Name))
		}
		if len(nj.Job.Steps) > 0 {
			warnings = append(warnings, fmt.Sprintf("job %s declares steps, steps are not executed", nj.Name))
		}

		declared[nj.Name] = true
	}

	return warnings
}
