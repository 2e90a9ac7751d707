package attendance

import (
	"context"

	"github.com/AsutoshPati/TelegramAttendanceBot/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción serializada por usuario:
// mientras fn corre, ningún otro evento del mismo usuario puede ejecutar su
// lectura de candidato ni su escritura. El repositorio que recibe fn está
// atado a esa transacción, así que o se confirma todo (registro creado o
// actualizado completo) o nada.
//
// El correlador no es seguro ante dos eventos concurrentes del mismo usuario
// sin esta serialización: leer el candidato y escribir el resultado no son
// atómicos como unidad y la carrera produce dos registros abiertos o una
// actualización perdida.
type TxRunner interface {
	RunForUser(ctx context.Context, userID string, fn func(repo repository.AttendanceRepository) error) error
}
