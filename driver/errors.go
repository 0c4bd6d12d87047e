package driver

import (
	"github.com/docker/libnetwork/types"
	"github.com/sirupsen/logrus"
)

// logRequest logs every RPC at a level derived from the libnetwork error
// marker interface the returned error satisfies, exactly as the teacher's
// l2bridge/driver.go does, extended with the two families (Timeout,
// Internal) the DHCP-backed operations in this driver actually produce.
func logRequest(fname string, req, res interface{}, err error) {
	if err == nil {
		logrus.Infof("%s(%v): %v", fname, req, res)
		return
	}
	switch err.(type) {
	case types.MaskableError:
		logrus.Infof("[MaskableError] %s(%v): %v", fname, req, err)
	case types.RetryError:
		logrus.Infof("[RetryError] %s(%v): %v", fname, req, err)
	case types.BadRequestError:
		logrus.Warnf("[BadRequestError] %s(%v): %v", fname, req, err)
	case types.NotFoundError:
		logrus.Warnf("[NotFoundError] %s(%v): %v", fname, req, err)
	case types.ForbiddenError:
		logrus.Warnf("[ForbiddenError] %s(%v): %v", fname, req, err)
	case types.NoServiceError:
		logrus.Warnf("[NoServiceError] %s(%v): %v", fname, req, err)
	case types.NotImplementedError:
		logrus.Warnf("[NotImplementedError] %s(%v): %v", fname, req, err)
	case types.TimeoutError:
		logrus.Errorf("[TimeoutError] %s(%v): %v", fname, req, err)
	case types.InternalError:
		logrus.Errorf("[InternalError] %s(%v): %v", fname, req, err)
	default:
		logrus.Errorf("[UNKNOWN] %s(%v): %v", fname, req, err)
	}
}
