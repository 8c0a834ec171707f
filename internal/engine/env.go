package engine

// MergeEnv собирает окружение контейнера из слоёв.
//
// Слои применяются по порядку, более поздний ключ перезаписывает ранний.
// Всегда возвращается новая map, входные map не изменяются.
func MergeEnv(layers ...map[string]string) map[string]string {
	size := 0
	for _, layer := range layers {
		size += len(layer)
	}

	merged := make(map[string]string, size)
	for _, layer := range layers {
		for k, v := range layer {
			merged[k] = v
		}
	}
	return merged
}
