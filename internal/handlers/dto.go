package handlers

import (
	"fmt"

	"github.com/gorilla/schema"
)

type CreateWatchDTO struct {
	Height    int     `schema:"height,required"`
	Width     int     `schema:"width,required"`
	MineCount int     `schema:"mine_count,required"`
	Seed      *uint64 `schema:"seed"`
}

func ParseCreateWatchDTO(src map[string][]string) (CreateWatchDTO, error) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	var dto CreateWatchDTO
	if err := dec.Decode(&dto, src); err != nil {
		return dto, err
	}
	if dto.Height <= 0 || dto.Width <= 0 {
		return dto, fmt.Errorf("invalid board size %dx%d", dto.Height, dto.Width)
	}
	if dto.MineCount < 0 || dto.MineCount > dto.Height*dto.Width {
		return dto, fmt.Errorf(
			"cannot place %d mines on a %dx%d board",
			dto.MineCount, dto.Height, dto.Width,
		)
	}
	return dto, nil
}

type RecordsFilterDTO struct {
	Height    *int  `schema:"height"`
	Width     *int  `schema:"width"`
	MineCount *int  `schema:"mine_count"`
	Won       *bool `schema:"won"`
}

func ParseRecordsFilterDTO(src map[string][]string) (RecordsFilterDTO, error) {
	dec := schema.NewDecoder()
	dec.IgnoreUnknownKeys(true)
	var dto RecordsFilterDTO
	err := dec.Decode(&dto, src)
	return dto, err
}
