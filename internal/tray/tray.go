// Package tray shows the connection status as a StatusNotifierItem on the
// D-Bus session bus, the tray protocol used by KDE, waybar, and most modern
// panels.
package tray

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
	"github.com/godbus/dbus/v5/prop"
	"github.com/sirupsen/logrus"

	"github.com/joharei/netctl-tray/internal/app"
	"github.com/joharei/netctl-tray/internal/status"
)

const (
	itemInterface   = "org.kde.StatusNotifierItem"
	itemPath        = dbus.ObjectPath("/StatusNotifierItem")
	watcherName     = "org.kde.StatusNotifierWatcher"
	watcherPath     = dbus.ObjectPath("/StatusNotifierWatcher")
	noMenu          = dbus.ObjectPath("/NO_DBUSMENU")
	registerMethod  = watcherName + ".RegisterStatusNotifierItem"
	nameHasOwner    = "org.freedesktop.DBus.NameHasOwner"
	introspectIface = "org.freedesktop.DBus.Introspectable"
)

// ErrNoTray is returned when no StatusNotifierWatcher runs on the session bus.
var ErrNoTray = errors.New("no status notifier watcher on the session bus")

var logger = logrus.WithField("module", "tray")

// pixmap is the (iiay) icon image of the protocol. We only send theme names,
// so it is always empty.
type pixmap struct {
	Width  int32
	Height int32
	Data   []byte
}

// toolTip is the (sa(iiay)ss) tooltip structure.
type toolTip struct {
	IconName    string
	Image       []pixmap
	Title       string
	Description string
}

// Tray is an exported StatusNotifierItem.
type Tray struct {
	mu    sync.Mutex
	conn  *dbus.Conn
	props *prop.Properties
	name  string
	last  app.Snapshot
}

// Available reports whether a StatusNotifierWatcher owns its bus name.
func Available(conn *dbus.Conn) (bool, error) {
	var has bool
	if err := conn.BusObject().Call(nameHasOwner, 0, watcherName).Store(&has); err != nil {
		return false, err
	}
	return has, nil
}

// New exports the item on conn and registers it with the watcher. It returns
// ErrNoTray when no watcher is running.
func New(conn *dbus.Conn, appName string, symbolic bool) (*Tray, error) {
	ok, err := Available(conn)
	if err != nil {
		return nil, fmt.Errorf("query status notifier watcher: %w", err)
	}
	if !ok {
		return nil, ErrNoTray
	}

	name := fmt.Sprintf("org.kde.StatusNotifierItem-%d-1", os.Getpid())
	reply, err := conn.RequestName(name, dbus.NameFlagDoNotQueue)
	if err != nil {
		return nil, fmt.Errorf("request bus name %s: %w", name, err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return nil, fmt.Errorf("bus name %s already taken", name)
	}

	t := &Tray{conn: conn, name: name}
	if err := conn.Export(itemMethods{}, itemPath, itemInterface); err != nil {
		return nil, fmt.Errorf("export item methods: %w", err)
	}

	initial := status.Acquiring
	props, err := prop.Export(conn, itemPath, prop.Map{
		itemInterface: {
			"Category":   {Value: "Hardware", Emit: prop.EmitConst},
			"Id":         {Value: "netctl-tray", Emit: prop.EmitConst},
			"Title":      {Value: appName, Emit: prop.EmitConst},
			"Status":     {Value: "Active", Emit: prop.EmitFalse},
			"IconName":   {Value: initial.Icon(symbolic), Emit: prop.EmitFalse},
			"ToolTip":    {Value: toolTip{IconName: initial.Icon(symbolic), Image: []pixmap{}, Title: status.TooltipAcquiring}, Emit: prop.EmitFalse},
			"ItemIsMenu": {Value: false, Emit: prop.EmitConst},
			"Menu":       {Value: noMenu, Emit: prop.EmitConst},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("export item properties: %w", err)
	}
	t.props = props

	node := &introspect.Node{
		Name: string(itemPath),
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			prop.IntrospectData,
			{
				Name:       itemInterface,
				Methods:    introspect.Methods(itemMethods{}),
				Properties: props.Introspection(itemInterface),
				Signals: []introspect.Signal{
					{Name: "NewIcon"},
					{Name: "NewToolTip"},
					{Name: "NewStatus", Args: []introspect.Arg{{Name: "status", Type: "s"}}},
				},
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), itemPath, introspectIface); err != nil {
		return nil, fmt.Errorf("export introspection: %w", err)
	}

	call := conn.Object(watcherName, watcherPath).Call(registerMethod, 0, name)
	if call.Err != nil {
		return nil, fmt.Errorf("register with status notifier watcher: %w", call.Err)
	}
	logger.WithField("name", name).Info("tray item registered")
	return t, nil
}

// SetDisplay updates the icon and tooltip. Signals are only emitted for the
// parts that changed.
func (t *Tray) SetDisplay(s app.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.Icon != t.last.Icon {
		t.props.SetMust(itemInterface, "IconName", s.Icon)
		if err := t.conn.Emit(itemPath, itemInterface+".NewIcon"); err != nil {
			logger.WithError(err).Warn("emit NewIcon")
		}
	}
	if s.Tooltip != t.last.Tooltip || s.Description() != t.last.Description() || s.Icon != t.last.Icon {
		t.props.SetMust(itemInterface, "ToolTip", tooltipFor(s))
		if err := t.conn.Emit(itemPath, itemInterface+".NewToolTip"); err != nil {
			logger.WithError(err).Warn("emit NewToolTip")
		}
	}
	t.last = s
}

// Close releases the bus name, which removes the item from the tray.
func (t *Tray) Close() error {
	_, err := t.conn.ReleaseName(t.name)
	return err
}

func tooltipFor(s app.Snapshot) toolTip {
	return toolTip{
		IconName:    s.Icon,
		Image:       []pixmap{},
		Title:       s.Tooltip,
		Description: s.Description(),
	}
}

// itemMethods are the methods a host may call on the item. The tray has no
// menu or window, so they all do nothing.
type itemMethods struct{}

func (itemMethods) Activate(x, y int32) *dbus.Error          { return nil }
func (itemMethods) SecondaryActivate(x, y int32) *dbus.Error { return nil }
func (itemMethods) ContextMenu(x, y int32) *dbus.Error       { return nil }
func (itemMethods) Scroll(delta int32, orientation string) *dbus.Error {
	return nil
}
