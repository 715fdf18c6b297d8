package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"operadoras/internal/services"
)

// ParseListParams reads page, limit and search from the query string.
// Absent values take the defaults; present values must be integers.
// Range clamping is left to the service.
func ParseListParams(query url.Values) (services.ListParams, error) {
	params := services.ListParams{
		Page:   services.DefaultPage,
		Limit:  services.DefaultLimit,
		Search: query.Get("search"),
	}

	var err error
	if params.Page, err = intParam(query, "page", params.Page); err != nil {
		return services.ListParams{}, err
	}
	if params.Limit, err = intParam(query, "limit", params.Limit); err != nil {
		return services.ListParams{}, err
	}

	return params, nil
}

func intParam(query url.Values, name string, def int) (int, error) {
	if !query.Has(name) {
		return def, nil
	}
	raw := query.Get(name)
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parâmetro '%s' deve ser um número inteiro, recebido %q", name, raw)
	}
	return n, nil
}

// SplitOperatorPath splits the remainder after /api/operadoras/ into a CNPJ
// and whether the expenses sub-resource was requested.
func SplitOperatorPath(rest string) (cnpj string, expenses bool) {
	if c, ok := strings.CutSuffix(rest, "/despesas"); ok {
		return c, true
	}
	return rest, false
}
