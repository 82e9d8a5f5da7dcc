package entity

import (
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain"
)

var (
	errEmptyUpdate    = fmt.Errorf("actualización vacía: %w", domain.ErrInvalidInput)
	errNegativeStock  = fmt.Errorf("el stock no puede ser negativo: %w", domain.ErrInvalidInput)
	errNegativeAmount = fmt.Errorf("los montos no pueden ser negativos: %w", domain.ErrInvalidInput)
	errUnknownStatus  = fmt.Errorf("estado desconocido: %w", domain.ErrInvalidInput)
)
