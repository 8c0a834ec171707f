package runtime

import (
	"sort"
	"strings"
)

// Операции runtime.
const (
	OpPull         = "pull"
	OpRun          = "run"
	OpStop         = "stop"
	OpRemoveImage  = "image_rm"
	OpCreateVolume = "volume_create"
)

// Маркер, по которому контейнеры iguana отличаются от остальных.
const (
	markerAnnotation = "iguana=true"
	markerEnv        = "IGUANA=true"
)

// Invocation — один вызов runtime.
type Invocation struct {
	// Op — операция (OpPull, OpRun, ...).
	Op string

	// Binary — бинарь runtime (podman, docker).
	Binary string

	// Args — аргументы командной строки без бинаря.
	Args []string

	// Attach — подключить stdin к процессу (интерактивный запуск).
	Attach bool
}

// String возвращает командную строку целиком.
func (i Invocation) String() string {
	return strings.Join(append([]string{i.Binary}, i.Args...), " ")
}

// ContainerRun — параметры запуска контейнера.
type ContainerRun struct {
	// Name — имя контейнера. Пустое для основного контейнера job.
	Name string

	// Image — образ.
	Image string

	// Env — итоговое (уже слитое) окружение.
	Env map[string]string

	// Volumes — тома в формате "source:target".
	Volumes []string

	// Service — сервисный контейнер: запускается в фоне (--detach).
	// Основной контейнер запускается интерактивно и блокирует до завершения.
	Service bool
}

// pullArgs: pull с отключённой проверкой TLS.
func pullArgs(image string) []string {
	return []string{"pull", "--tls-verify=false", image}
}

// runArgs строит аргументы run.
func runArgs(c ContainerRun, privileged, debug bool, sharedDir string) []string {
	args := []string{
		"run",
		"--network=host",
		"--annotation=" + markerAnnotation,
		"--env=" + markerEnv,
		"--mount=type=bind,source=" + sharedDir + ",target=" + sharedDir,
	}

	if privileged {
		args = append(args,
			"--privileged",
			"--mount=type=bind,source=/dev,target=/dev",
		)
	}

	for _, v := range c.Volumes {
		args = append(args, "--volume="+v)
	}

	// Ключи сортируются, чтобы вызов был детерминированным
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--env="+k+"="+c.Env[k])
	}

	if c.Name != "" {
		args = append(args, "--name="+c.Name)
	}

	if c.Service {
		args = append(args, "--detach")
	} else {
		args = append(args, "--interactive")
	}

	if !debug {
		args = append(args, "--rm")
	}

	return append(args, c.Image)
}

// stopArgs: stop, который не падает на несуществующем контейнере.
func stopArgs(name string) []string {
	return []string{"stop", "--ignore", name}
}

// removeImageArgs: принудительное удаление образа.
func removeImageArgs(image string) []string {
	return []string{"image", "rm", "--force", image}
}

// createVolumeArgs: создание named volume, если его ещё нет.
func createVolumeArgs(name string) []string {
	return []string{"volume", "create", "--ignore", name}
}

// VolumeName возвращает имя named volume из записи "source:target".
//
// Возвращает "", если source — путь на хосте (bind mount): такой том
// создавать не нужно.
func VolumeName(volume string) string {
	source, _, _ := strings.Cut(volume, ":")
	if source == "" || strings.HasPrefix(source, "/") || strings.HasPrefix(source, ".") {
		return ""
	}
	return source
}
