// Package config loads and resolves the window manager configuration.
// Storage goes through the Driver interface; Parse turns the raw file model
// into protocol-level masks, keysyms and colors.
package config

type Driver interface {
	Exists() (bool, error)
	Write(config Config) error
	Read() (Config, error)
}

// NewStore wraps a driver, materializing the default configuration on first
// run.
func NewStore(driver Driver) (Store, error) {
	exists, err := driver.Exists()
	if err != nil {
		return Store{}, err
	}
	if !exists {
		if err := driver.Write(defaultConfig); err != nil {
			return Store{}, err
		}
	}

	return Store{
		driver: driver,
	}, nil
}

type Store struct {
	driver Driver
}

func (s *Store) GetConfig() (Config, error) {
	return s.driver.Read()
}

func (s *Store) UpdateConfig(fn func(cfg Config) (Config, error)) error {
	cfg, err := s.driver.Read()
	if err != nil {
		return err
	}

	cfg, err = fn(cfg)
	if err != nil {
		return err
	}

	return s.driver.Write(cfg)
}
