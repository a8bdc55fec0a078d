package repository

import "solar-agent/domain"

type ClientRepository interface {
	Save(client domain.Client) error
	List() ([]domain.Client, error)
}
