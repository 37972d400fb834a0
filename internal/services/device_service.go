// Package services holds the device use cases. Handlers call into a
// DeviceService; the service owns validation, geohash bookkeeping and keeping
// the spatial index in step with the repository.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"devicemap/internal/config"
	"devicemap/internal/domain/entities"
	"devicemap/internal/geo"
	"devicemap/internal/repository"
	"devicemap/internal/telemetry"
	"devicemap/pkg/utils"
)

// Sentinel errors mapped to HTTP status codes by the handlers.
//
// Go Learning Note: Sentinel Errors
// Package-level error values let callers compare with errors.Is instead of
// matching strings. ErrDeviceNotFound aliases the repository error, so either
// name matches whatever a repository returns.
var (
	ErrDeviceNotFound = repository.ErrDeviceNotFound
	ErrInvalidRequest = errors.New("invalid request")
)

const (
	defaultModel    = "Unknown"
	defaultLocation = "Unknown Location"
)

// DeviceService implements listing, registration, updates and the spatial
// queries over the device store.
type DeviceService struct {
	repo      repository.DeviceRepository
	index     *geo.SpatialIndex
	stats     telemetry.Generator
	locks     *deviceLocks
	cfg       config.GeoConfig
	now       func() time.Time
	newID     func() string
	onCounted func(int)
}

// Option customizes a DeviceService.
type Option func(*DeviceService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *DeviceService) { s.now = now }
}

// WithIDGenerator replaces utils.GenerateDeviceID.
func WithIDGenerator(newID func() string) Option {
	return func(s *DeviceService) { s.newID = newID }
}

// WithCountObserver registers fn to receive the number of indexed devices
// whenever it may have changed.
func WithCountObserver(fn func(int)) Option {
	return func(s *DeviceService) { s.onCounted = fn }
}

func NewDeviceService(
	repo repository.DeviceRepository,
	index *geo.SpatialIndex,
	stats telemetry.Generator,
	cfg config.GeoConfig,
	opts ...Option,
) *DeviceService {
	s := &DeviceService{
		repo:      repo,
		index:     index,
		stats:     stats,
		locks:     newDeviceLocks(),
		cfg:       cfg,
		now:       time.Now,
		newID:     utils.GenerateDeviceID,
		onCounted: func(int) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DeviceFilter narrows List. Zero values disable a criterion.
type DeviceFilter struct {
	Status   entities.DeviceStatus
	Bounds   *geo.MapBounds
	Center   *geo.Coordinate
	RadiusKm float64
}

// RegisterDeviceRequest carries the fields a client may set when registering.
// Name, DeviceType and Coordinates are required.
type RegisterDeviceRequest struct {
	Name             string                `json:"name"`
	DeviceType       string                `json:"deviceType"`
	Coordinates      *geo.Coordinate       `json:"coordinates"`
	Model            string                `json:"model"`
	Location         string                `json:"location"`
	GeohashPrecision *int                  `json:"geohashPrecision"`
	SystemStats      *entities.SystemStats `json:"systemStats"`
	IPAddress        string                `json:"ipAddress"`
	UserAgent        string                `json:"userAgent"`
	Manufacturer     string                `json:"manufacturer"`
	Specifications   []string              `json:"specifications"`
	Resources        []entities.Resource   `json:"resources"`
}

// DeviceUpdate is a partial update. Nil fields are left untouched; the ID
// cannot be changed.
type DeviceUpdate struct {
	Name             *string                `json:"name"`
	Status           *entities.DeviceStatus `json:"status"`
	Coordinates      *geo.Coordinate        `json:"coordinates"`
	SystemStats      *entities.SystemStats  `json:"systemStats"`
	GeohashPrecision *int                   `json:"geohashPrecision"`
	DeviceType       *string                `json:"deviceType"`
	Model            *string                `json:"model"`
	Location         *string                `json:"location"`
	IPAddress        *string                `json:"ipAddress"`
	UserAgent        *string                `json:"userAgent"`
	Manufacturer     *string                `json:"manufacturer"`
	Specifications   *[]string              `json:"specifications"`
	Resources        *[]entities.Resource   `json:"resources"`
}

// DeviceDistance pairs a device with its distance from a query point.
type DeviceDistance struct {
	Device     *entities.Device `json:"device"`
	DistanceKm float64          `json:"distanceKm"`
}

// AreaResult is the response of an area-of-interest query.
type AreaResult struct {
	Area    geo.AreaInfo       `json:"area"`
	Devices []*entities.Device `json:"devices"`
}

// Statistics aggregates the fleet for the statistics page.
type Statistics struct {
	Total              int                           `json:"total"`
	ByStatus           map[entities.DeviceStatus]int `json:"byStatus"`
	ByType             map[string]int                `json:"byType"`
	AverageCPUUsage    float64                       `json:"averageCpuUsage"`
	AverageRAMUsage    float64                       `json:"averageRamUsage"`
	AverageTemperature float64                       `json:"averageTemperature"`
	AverageUptime      float64                       `json:"averageUptime"`
}

// Reindex rebuilds the spatial index from the repository.
func (s *DeviceService) Reindex(ctx context.Context) error {
	devices, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	points := make(map[string]geo.Coordinate, len(devices))
	for _, d := range devices {
		points[d.ID] = d.Coordinates
	}
	s.index.Reset(points)
	s.onCounted(s.index.Count())

	log.Info().Int("devices", len(devices)).Msg("Spatial index rebuilt")
	return nil
}

// List returns the stored devices matching filter, in store order.
func (s *DeviceService) List(ctx context.Context, filter DeviceFilter) ([]*entities.Device, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, filter.Status)
	}
	if filter.Bounds != nil {
		if err := filter.Bounds.Validate(); err != nil {
			return nil, err
		}
	}
	if filter.Center != nil {
		if !filter.Center.Valid() {
			return nil, fmt.Errorf("%w: center out of range", ErrInvalidRequest)
		}
		if filter.RadiusKm < 0 {
			return nil, fmt.Errorf("%w: radius must not be negative", ErrInvalidRequest)
		}
	}

	devices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	if filter.Status != "" {
		matched := make([]*entities.Device, 0, len(devices))
		for _, d := range devices {
			if d.Status == filter.Status {
				matched = append(matched, d)
			}
		}
		devices = matched
	}
	if filter.Bounds != nil {
		devices = geo.FilterInBounds(devices, *filter.Bounds)
	}
	if filter.Center != nil {
		matched := make([]*entities.Device, 0, len(devices))
		for _, d := range devices {
			if geo.IsWithinRadius(d.Coordinates, *filter.Center, filter.RadiusKm) {
				matched = append(matched, d)
			}
		}
		devices = matched
	}
	return devices, nil
}

func (s *DeviceService) Get(ctx context.Context, id string) (*entities.Device, error) {
	return s.repo.GetByID(ctx, id)
}

// Register validates req, fills defaults and stores a new device.
func (s *DeviceService) Register(ctx context.Context, req RegisterDeviceRequest) (*entities.Device, error) {
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.DeviceType) == "" || req.Coordinates == nil {
		return nil, fmt.Errorf("%w: missing required fields: name, deviceType, coordinates", ErrInvalidRequest)
	}

	device := &entities.Device{
		ID:               s.newID(),
		Name:             strings.TrimSpace(req.Name),
		Status:           entities.DeviceStatusOnline,
		Coordinates:      *req.Coordinates,
		GeohashPrecision: req.GeohashPrecision,
		DeviceType:       strings.TrimSpace(req.DeviceType),
		Model:            orDefault(req.Model, defaultModel),
		Location:         orDefault(req.Location, defaultLocation),
		IPAddress:        req.IPAddress,
		UserAgent:        req.UserAgent,
		Manufacturer:     req.Manufacturer,
		Specifications:   req.Specifications,
		Resources:        req.Resources,
	}
	if req.SystemStats != nil {
		device.SystemStats = *req.SystemStats
	} else {
		device.SystemStats = s.stats.Generate()
	}
	device.Touch(s.now())

	if err := s.store(ctx, device, s.repo.Create); err != nil {
		return nil, err
	}

	log.Info().
		Str("device_id", device.ID).
		Str("geohash", device.Geohash).
		Str("device_type", device.DeviceType).
		Msg("Device registered")
	return device, nil
}

// Update applies the non-nil fields of upd to the device and refreshes
// lastSeen. The geohash follows coordinate and precision changes.
func (s *DeviceService) Update(ctx context.Context, id string, upd DeviceUpdate) (*entities.Device, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	device, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Name != nil {
		device.Name = *upd.Name
	}
	if upd.Status != nil {
		device.Status = *upd.Status
	}
	if upd.GeohashPrecision != nil {
		p := *upd.GeohashPrecision
		device.GeohashPrecision = &p
	}
	if upd.Coordinates != nil {
		if err := device.MoveTo(*upd.Coordinates, s.cfg.DefaultPrecision); err != nil {
			return nil, invalid(err)
		}
	}
	if upd.SystemStats != nil {
		device.SystemStats = *upd.SystemStats
	}
	if upd.DeviceType != nil {
		device.DeviceType = *upd.DeviceType
	}
	if upd.Model != nil {
		device.Model = *upd.Model
	}
	if upd.Location != nil {
		device.Location = *upd.Location
	}
	if upd.IPAddress != nil {
		device.IPAddress = *upd.IPAddress
	}
	if upd.UserAgent != nil {
		device.UserAgent = *upd.UserAgent
	}
	if upd.Manufacturer != nil {
		device.Manufacturer = *upd.Manufacturer
	}
	if upd.Specifications != nil {
		device.Specifications = *upd.Specifications
	}
	if upd.Resources != nil {
		device.Resources = *upd.Resources
	}
	device.Touch(s.now())

	if err := s.store(ctx, device, s.repo.Update); err != nil {
		return nil, err
	}

	log.Debug().
		Str("device_id", device.ID).
		Str("geohash", device.Geohash).
		Str("status", string(device.Status)).
		Msg("Device updated")
	return device, nil
}

// store validates the device, recomputes its geohash, persists it with write
// and indexes it.
func (s *DeviceService) store(ctx context.Context, device *entities.Device, write func(context.Context, *entities.Device) error) error {
	if err := device.Validate(); err != nil {
		return invalid(err)
	}
	if err := device.UpdateGeohash(s.cfg.DefaultPrecision); err != nil {
		return invalid(err)
	}
	if err := write(ctx, device); err != nil {
		return invalid(err)
	}

	s.index.Put(device.ID, device.Coordinates)
	s.onCounted(s.index.Count())
	return nil
}

func (s *DeviceService) Delete(ctx context.Context, id string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.index.Remove(id)
	s.onCounted(s.index.Count())

	log.Info().Str("device_id", id).Msg("Device deleted")
	return nil
}

// GeohashInfo describes the geohash cell of a device. A precision of 0 uses
// the device's own precision (or the configured default).
func (s *DeviceService) GeohashInfo(ctx context.Context, id string, precision int) (geo.GeohashInfo, error) {
	device, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return geo.GeohashInfo{}, err
	}
	if precision == 0 {
		precision = device.Precision(s.cfg.DefaultPrecision)
	}
	return geo.Info(device.Coordinates.Lat, device.Coordinates.Lng, precision)
}

// Area returns the devices inside bounds and the area summary.
func (s *DeviceService) Area(ctx context.Context, bounds geo.MapBounds, zoom int) (AreaResult, error) {
	if err := bounds.Validate(); err != nil {
		return AreaResult{}, err
	}

	candidates := make(map[string]struct{})
	for _, id := range s.index.SearchBox(bounds) {
		candidates[id] = struct{}{}
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return AreaResult{}, err
	}
	// The index narrows the scan; the stored coordinates decide membership
	// and the store decides order.
	inIndex := make([]*entities.Device, 0, len(candidates))
	for _, d := range all {
		if _, ok := candidates[d.ID]; ok {
			inIndex = append(inIndex, d)
		}
	}
	devices := geo.FilterInBounds(inIndex, bounds)
	return AreaResult{
		Area:    geo.Summarize(bounds, devices, zoom),
		Devices: devices,
	}, nil
}

// Nearby returns the devices within radiusKm of center, nearest first.
func (s *DeviceService) Nearby(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]DeviceDistance, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("%w: center out of range", ErrInvalidRequest)
	}
	if radiusKm < 0 {
		return nil, fmt.Errorf("%w: radius must not be negative", ErrInvalidRequest)
	}
	return s.resolve(ctx, s.index.SearchRadius(center, radiusKm))
}

// Nearest returns up to n devices closest to center. n is capped at the
// configured maximum.
func (s *DeviceService) Nearest(ctx context.Context, center geo.Coordinate, n int) ([]DeviceDistance, error) {
	if !center.Valid() {
		return nil, fmt.Errorf("%w: center out of range", ErrInvalidRequest)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: n must be positive", ErrInvalidRequest)
	}
	if s.cfg.MaxNearest > 0 && n > s.cfg.MaxNearest {
		n = s.cfg.MaxNearest
	}
	return s.resolve(ctx, s.index.Nearest(center, n))
}

// resolve loads the devices behind index matches. Matches whose device is no
// longer stored are dropped.
func (s *DeviceService) resolve(ctx context.Context, matches []geo.Match) ([]DeviceDistance, error) {
	out := make([]DeviceDistance, 0, len(matches))
	if len(matches) == 0 {
		return out, nil
	}

	devices, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entities.Device, len(devices))
	for _, d := range devices {
		byID[d.ID] = d
	}

	for _, m := range matches {
		d, ok := byID[m.ID]
		if !ok {
			log.Warn().Str("device_id", m.ID).Msg("Indexed device missing from store")
			continue
		}
		out = append(out, DeviceDistance{Device: d, DistanceKm: m.DistanceKm})
	}
	return out, nil
}

// Statistics counts devices per status and type and averages their stats.
func (s *DeviceService) Statistics(ctx context.Context) (Statistics, error) {
	devices, err := s.repo.List(ctx)
	if err != nil {
		return Statistics{}, err
	}

	stats := Statistics{
		Total:    len(devices),
		ByStatus: make(map[entities.DeviceStatus]int, len(entities.DeviceStatuses)),
		ByType:   make(map[string]int),
	}
	for _, st := range entities.DeviceStatuses {
		stats.ByStatus[st] = 0
	}
	if len(devices) == 0 {
		return stats, nil
	}

	var cpu, ram, temp, uptime float64
	for _, d := range devices {
		stats.ByStatus[d.Status]++
		stats.ByType[d.DeviceType]++
		cpu += d.SystemStats.CPUUsage
		ram += d.SystemStats.RAMUsage
		temp += d.SystemStats.Temperature
		uptime += d.SystemStats.Uptime
	}
	n := float64(len(devices))
	stats.AverageCPUUsage = cpu / n
	stats.AverageRAMUsage = ram / n
	stats.AverageTemperature = temp / n
	stats.AverageUptime = uptime / n
	return stats, nil
}

// invalid maps record validation failures to ErrInvalidRequest and passes
// every other error through.
func invalid(err error) error {
	if errors.Is(err, entities.ErrInvalidDevice) || errors.Is(err, geo.ErrInvalidPrecision) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return err
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
