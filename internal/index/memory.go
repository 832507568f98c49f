package index

import (
	"context"
)

// Memory is an in-memory Index for tests and offline use.
type Memory struct {
	Packages map[string]PackageInfo
	Datasets map[string]DataInfo
	// Err, when set, is returned from every lookup; it simulates an
	// unreachable catalog.
	Err error
}

// NewMemory builds an empty in-memory catalog.
func NewMemory() *Memory {
	return &Memory{
		Packages: make(map[string]PackageInfo),
		Datasets: make(map[string]DataInfo),
	}
}

// AddPackage registers a package under its name.
func (m *Memory) AddPackage(info PackageInfo) *Memory {
	m.Packages[info.Name] = info
	return m
}

// AddData registers a dataset under its name.
func (m *Memory) AddData(info DataInfo) *Memory {
	m.Datasets[info.Name] = info
	return m
}

// Package implements Index.
func (m *Memory) Package(_ context.Context, name, version string) (PackageInfo, bool, error) {
	if m.Err != nil {
		return PackageInfo{}, false, m.Err
	}
	info, ok := m.Packages[name]
	if !ok {
		return PackageInfo{}, false, nil
	}
	if version != "" && info.Version != version {
		return PackageInfo{}, false, nil
	}
	return info, true, nil
}

// Data implements Index.
func (m *Memory) Data(_ context.Context, name string) (DataInfo, bool, error) {
	if m.Err != nil {
		return DataInfo{}, false, m.Err
	}
	info, ok := m.Datasets[name]
	return info, ok, nil
}
