package repositories

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"pasartani/internal/models"
)

// Flat-file encoding, inherited from the legacy data files: one line per
// record, fields joined by "###". Order items are joined by "@@@", each item
// encoded as product:quantity:price.
const (
	fieldDelimiter = "###"
	itemDelimiter  = "@@@"
	dateLayout     = "2006-01-02"

	usersFile         = "users.txt"
	productsFile      = "produce.txt"
	ordersFile        = "orders.txt"
	subscriptionsFile = "subscriptions.txt"
)

// FileSnapshotRepository persists the marketplace state as delimited text
// files in a data directory. Malformed lines are skipped with a logged
// warning; loading continues for the remaining records.
type FileSnapshotRepository struct {
	dir string
}

// NewFileSnapshotRepository creates a snapshot repository rooted at dir,
// creating the directory if needed.
func NewFileSnapshotRepository(dir string) (*FileSnapshotRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileSnapshotRepository{dir: dir}, nil
}

// LoadAll reads every entity file into a snapshot. Missing files are treated
// as empty collections.
func (r *FileSnapshotRepository) LoadAll() (*Snapshot, error) {
	snap := &Snapshot{}

	if err := r.readLines(usersFile, func(line string) {
		customer, farmer, err := decodeUser(line)
		if err != nil {
			log.Printf("Skipping malformed user line: %q - %v", line, err)
			return
		}
		if customer != nil {
			snap.Customers = append(snap.Customers, *customer)
		} else {
			snap.Farmers = append(snap.Farmers, *farmer)
		}
	}); err != nil {
		return nil, err
	}

	if err := r.readLines(productsFile, func(line string) {
		product, err := decodeProduct(line)
		if err != nil {
			log.Printf("Skipping malformed product line: %q - %v", line, err)
			return
		}
		snap.Products = append(snap.Products, *product)
	}); err != nil {
		return nil, err
	}

	if err := r.readLines(ordersFile, func(line string) {
		order, err := decodeOrder(line)
		if err != nil {
			log.Printf("Skipping malformed order line: %q - %v", line, err)
			return
		}
		snap.Orders = append(snap.Orders, *order)
	}); err != nil {
		return nil, err
	}

	if err := r.readLines(subscriptionsFile, func(line string) {
		sub, err := decodeSubscription(line)
		if err != nil {
			log.Printf("Skipping malformed subscription line: %q - %v", line, err)
			return
		}
		snap.Subscriptions = append(snap.Subscriptions, *sub)
	}); err != nil {
		return nil, err
	}

	return snap, nil
}

// SaveAll writes the whole snapshot back to the entity files.
func (r *FileSnapshotRepository) SaveAll(snap *Snapshot) error {
	userLines := make([]string, 0, len(snap.Customers)+len(snap.Farmers))
	for _, c := range snap.Customers {
		userLines = append(userLines, encodeUser(c.User, c.Location))
	}
	for _, f := range snap.Farmers {
		userLines = append(userLines, encodeUser(f.User, f.Location))
	}
	if err := r.writeLines(usersFile, userLines); err != nil {
		return err
	}

	productLines := make([]string, 0, len(snap.Products))
	for _, p := range snap.Products {
		productLines = append(productLines, encodeProduct(p))
	}
	if err := r.writeLines(productsFile, productLines); err != nil {
		return err
	}

	orderLines := make([]string, 0, len(snap.Orders))
	for _, o := range snap.Orders {
		orderLines = append(orderLines, encodeOrder(o))
	}
	if err := r.writeLines(ordersFile, orderLines); err != nil {
		return err
	}

	subLines := make([]string, 0, len(snap.Subscriptions))
	for _, s := range snap.Subscriptions {
		subLines = append(subLines, encodeSubscription(s))
	}
	return r.writeLines(subscriptionsFile, subLines)
}

func (r *FileSnapshotRepository) readLines(name string, handle func(line string)) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		handle(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func (r *FileSnapshotRepository) writeLines(name string, lines []string) error {
	path := filepath.Join(r.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, line := range lines {
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	return nil
}

// --- Encoding ---

func encodeUser(u models.User, location string) string {
	return strings.Join([]string{
		string(u.Role), u.ID, u.Name, u.Email, u.PasswordHash, location,
	}, fieldDelimiter)
}

func encodeProduct(p models.Product) string {
	return strings.Join([]string{
		p.ID,
		p.Name,
		p.Description,
		formatFloat(p.Price),
		strconv.Itoa(p.QuantityAvailable),
		p.HarvestDate.Format(dateLayout),
		p.FarmerID,
	}, fieldDelimiter)
}

func encodeOrder(o models.Order) string {
	return strings.Join([]string{
		o.ID,
		o.CustomerID,
		o.OrderDate.Format(dateLayout),
		encodeOrderItems(o.Items),
		formatFloat(o.TotalAmount),
		string(o.Status),
	}, fieldDelimiter)
}

// encodeOrderItems flattens order lines into the product:quantity:price list
// shared by the file and database snapshot encodings.
func encodeOrderItems(items []models.OrderItem) string {
	encoded := make([]string, 0, len(items))
	for _, item := range items {
		encoded = append(encoded, fmt.Sprintf("%s:%d:%s", item.ProductID, item.Quantity, formatFloat(item.Price)))
	}
	return strings.Join(encoded, itemDelimiter)
}

func decodeOrderItems(s string) ([]models.OrderItem, error) {
	if s == "" {
		return nil, nil
	}
	var items []models.OrderItem
	for _, encoded := range strings.Split(s, itemDelimiter) {
		fields := strings.Split(encoded, ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("invalid order item %q", encoded)
		}
		quantity, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("invalid order item quantity: %w", err)
		}
		price, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid order item price: %w", err)
		}
		items = append(items, models.OrderItem{ProductID: fields[0], Quantity: quantity, Price: price})
	}
	return items, nil
}

func encodeSubscription(s models.Subscription) string {
	return strings.Join([]string{
		s.ID,
		s.CustomerID,
		s.FarmerID,
		s.StartDate.Format(dateLayout),
		string(s.Status),
		s.Type,
	}, fieldDelimiter)
}

// formatFloat uses the shortest representation that round-trips exactly.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// --- Decoding ---

func decodeUser(line string) (*models.Customer, *models.Farmer, error) {
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) != 6 {
		return nil, nil, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}
	role, id, name, email, passwordHash, location :=
		parts[0], parts[1], parts[2], parts[3], parts[4], parts[5]

	switch models.Role(role) {
	case models.RoleCustomer:
		customer, err := models.NewCustomer(id, name, email, passwordHash, location)
		if err != nil {
			return nil, nil, err
		}
		return customer, nil, nil
	case models.RoleFarmer:
		farmer, err := models.NewFarmer(id, name, email, passwordHash, location)
		if err != nil {
			return nil, nil, err
		}
		return nil, farmer, nil
	default:
		return nil, nil, fmt.Errorf("unknown user role %q", role)
	}
}

func decodeProduct(line string) (*models.Product, error) {
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) != 7 {
		return nil, fmt.Errorf("expected 7 fields, got %d", len(parts))
	}
	price, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price: %w", err)
	}
	quantity, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}
	harvestDate, err := time.ParseInLocation(dateLayout, parts[5], time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid harvest date: %w", err)
	}
	return models.NewProduct(parts[0], parts[1], parts[2], price, quantity, harvestDate, parts[6])
}

func decodeOrder(line string) (*models.Order, error) {
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}
	orderDate, err := time.ParseInLocation(dateLayout, parts[2], time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid order date: %w", err)
	}
	total, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	items, err := decodeOrderItems(parts[3])
	if err != nil {
		return nil, err
	}

	// The persisted total is authoritative; it was fixed at order creation
	// and must survive round-trips bit for bit.
	return &models.Order{
		ID:          parts[0],
		CustomerID:  parts[1],
		OrderDate:   orderDate,
		Items:       items,
		TotalAmount: total,
		Status:      models.OrderStatus(parts[5]),
	}, nil
}

func decodeSubscription(line string) (*models.Subscription, error) {
	parts := strings.Split(line, fieldDelimiter)
	if len(parts) != 6 {
		return nil, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}
	startDate, err := time.ParseInLocation(dateLayout, parts[3], time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid start date: %w", err)
	}
	return &models.Subscription{
		ID:         parts[0],
		CustomerID: parts[1],
		FarmerID:   parts[2],
		StartDate:  startDate,
		Status:     models.SubscriptionStatus(parts[4]),
		Type:       parts[5],
	}, nil
}
